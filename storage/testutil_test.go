package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"bulk_bench/models"
)

const productsDDL = `CREATE TABLE %s (
	id TEXT, Name TEXT, Description TEXT, Brand TEXT, Category TEXT,
	Price REAL, Currency TEXT, Stock INTEGER, EAN TEXT, Color TEXT,
	Size TEXT, Availability TEXT, "Internal ID" TEXT
)`

func newSQLiteSink(t *testing.T, table string, create bool) *SQLiteSink {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.db")
	sink, err := NewSQLiteSink(context.Background(), path, table)
	if err != nil {
		t.Fatalf("open sqlite sink: %v", err)
	}
	t.Cleanup(func() { sink.Close() })

	if create {
		if _, err := sink.DB().Exec(fmt.Sprintf(productsDDL, quoteDouble(table))); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return sink
}

func makeRecords(t *testing.T, n int) []models.Record {
	t.Helper()
	out := make([]models.Record, 0, n)
	for i := 1; i <= n; i++ {
		rec, err := models.RecordFromFields([]string{
			fmt.Sprint(i), "Name", "Desc", "Brand", "Cat", "10.5", "USD", "3",
			"4006381333931", "Blue", "L", "in_stock", fmt.Sprint(1000 + i),
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		out = append(out, rec)
	}
	return out
}

func countRows(t *testing.T, sink *SQLiteSink, table string) int {
	t.Helper()
	var n int
	if err := sink.DB().QueryRow("SELECT COUNT(*) FROM " + quoteDouble(table)).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
