package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bulk_bench/config"
	"bulk_bench/models"
	"bulk_bench/storage"
)

const header = "Index,Name,Description,Brand,Category,Price,Currency,Stock,EAN,Color,Size,Availability,Internal ID\n"

// writeCSV writes a header plus n generated product rows.
func writeCSV(t *testing.T, dir string, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(header)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d,Product %d,\"Desc, with comma\",Brand,Electronics,%d.99,USD,%d,400638133%04d,Blue,M,in_stock,%d\n",
			i, i, i%500, i%90, i%10000, 10000+i)
	}
	path := filepath.Join(dir, "products.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

type fakeSampler struct {
	calls int
	mem   []float64
	cpu   []float64
	err   error
}

func (f *fakeSampler) Sample() (float64, float64, error) {
	i := f.calls
	f.calls++
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.mem[i%len(f.mem)], f.cpu[i%len(f.cpu)], nil
}

func newFakeSampler() *fakeSampler {
	return &fakeSampler{mem: []float64{30, 25, 40, 35}, cpu: []float64{80, 95, 60, 70}}
}

// recordingSink wraps a real sink and remembers each batch size.
type recordingSink struct {
	storage.Sink
	sizes     []int
	truncates int
	failAfter int
	closed    bool
}

func (r *recordingSink) Truncate(ctx context.Context) error {
	r.truncates++
	return r.Sink.Truncate(ctx)
}

func (r *recordingSink) InsertBatch(ctx context.Context, batch []models.Record) error {
	if r.failAfter > 0 && len(r.sizes) >= r.failAfter {
		return fmt.Errorf("connection reset")
	}
	r.sizes = append(r.sizes, len(batch))
	return r.Sink.InsertBatch(ctx, batch)
}

func (r *recordingSink) Close() error {
	r.closed = true
	return r.Sink.Close()
}

// memorySink counts rows without a database.
type memorySink struct {
	sizes []int
	rows  int
}

func (m *memorySink) Truncate(context.Context) error {
	m.rows = 0
	return nil
}

func (m *memorySink) InsertBatch(_ context.Context, batch []models.Record) error {
	m.sizes = append(m.sizes, len(batch))
	m.rows += len(batch)
	return nil
}

func (m *memorySink) Label() string { return "Memory" }

func (m *memorySink) Close() error { return nil }

type fixture struct {
	cfg    *config.Config
	dbPath string
}

func newFixture(t *testing.T, rows int, createTable bool) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.CSVPath = writeCSV(t, dir, rows)
	cfg.ResultsDir = filepath.Join(dir, "results")
	cfg.ResultFile = "sqlite_boring_a_plain_go.json"
	cfg.TableName = "products_sqlite_boring_plain"
	cfg.Driver = storage.DriverSQLite
	cfg.ConnectionString = filepath.Join(dir, "bench.db")
	cfg.Labels.DB = "SQLite"

	if createTable {
		db, err := sql.Open("sqlite3", cfg.ConnectionString)
		if err != nil {
			t.Fatalf("open db: %v", err)
		}
		defer db.Close()
		_, err = db.Exec(`CREATE TABLE products_sqlite_boring_plain (
			id TEXT, Name TEXT, Description TEXT, Brand TEXT, Category TEXT,
			Price REAL, Currency TEXT, Stock INTEGER, EAN TEXT, Color TEXT,
			Size TEXT, Availability TEXT, "Internal ID" TEXT)`)
		if err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return &fixture{cfg: cfg, dbPath: cfg.ConnectionString}
}

func (f *fixture) opener(rec *recordingSink) SinkOpener {
	return func(ctx context.Context) (storage.Sink, error) {
		sink, err := storage.Open(ctx, f.cfg.Driver, f.cfg.ConnectionString, f.cfg.TableName)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return sink, nil
		}
		rec.Sink = sink
		return rec, nil
	}
}

func (f *fixture) countRows(t *testing.T) int {
	t.Helper()
	db, err := sql.Open("sqlite3", f.dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM products_sqlite_boring_plain").Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
