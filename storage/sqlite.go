package storage

import (
	"context"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteSink struct {
	*sqlSink
}

// NewSQLiteSink opens the database file at dbPath (":memory:" works too).
// SQLite has no TRUNCATE, so Truncate issues a DELETE.
func NewSQLiteSink(ctx context.Context, dbPath, table string) (*SQLiteSink, error) {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	s, err := openSQL(ctx, "sqlite3", dbPath+sep+"_journal_mode=WAL&_busy_timeout=5000", table, "SQLite", sqliteDialect)
	if err != nil {
		return nil, err
	}
	return &SQLiteSink{sqlSink: s}, nil
}
