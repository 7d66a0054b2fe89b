package source

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"bulk_bench/models"
)

func openFixture(t *testing.T, name string) *CSVSource {
	t.Helper()
	src, err := Open(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to open fixture %s: %v", name, err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func readAll(t *testing.T, src *CSVSource) ([]models.Record, error) {
	t.Helper()
	var out []models.Record
	for {
		rec, err := src.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func TestCSVSource_ReadsAllRows(t *testing.T) {
	src := openFixture(t, "products_small.csv")

	if got := src.Header()[12]; got != "Internal ID" {
		t.Fatalf("expected header column Internal ID, got %q", got)
	}

	records, err := readAll(t, src)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "1" {
		t.Fatalf("expected id 1, got %s", first.ID)
	}
	if first.Brand != "Garner, Boyle and Flynn" {
		t.Fatalf("quoted field not preserved: %q", first.Brand)
	}
	if first.InternalID != "56" {
		t.Fatalf("expected internal id 56, got %s", first.InternalID)
	}

	// malformed numerics are passed through as text
	third := records[2]
	if third.Price != "abc" || third.Stock != "xyz" {
		t.Fatalf("expected raw price/stock, got %q/%q", third.Price, third.Stock)
	}

	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after exhaustion, got %v", err)
	}
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	src := openFixture(t, "header_only.csv")

	records, err := readAll(t, src)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestCSVSource_MissingHeader(t *testing.T) {
	if _, err := Open(filepath.Join("testdata", "empty.csv")); err == nil {
		t.Fatalf("expected error for file without header")
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join("testdata", "does_not_exist.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCSVSource_ShortRowIsSchemaViolation(t *testing.T) {
	src := openFixture(t, "short_row.csv")

	records, err := readAll(t, src)
	if err == nil {
		t.Fatalf("expected schema violation")
	}
	if !errors.Is(err, models.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 good record before the bad row, got %d", len(records))
	}
}
