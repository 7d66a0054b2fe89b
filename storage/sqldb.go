package storage

import (
	"context"
	"database/sql"
	"fmt"

	"bulk_bench/models"
)

// sqlSink is the database/sql backed sink shared by MySQL and SQLite.
type sqlSink struct {
	db      *sql.DB
	table   string
	label   string
	dialect dialect
}

func openSQL(ctx context.Context, driverName, dsn, table, label string, d dialect) (*sqlSink, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", label, err)
	}

	// one connection: the benchmark is single-threaded and an in-memory
	// SQLite database only exists on the connection that created it
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", label, err)
	}

	return &sqlSink{db: db, table: table, label: label, dialect: d}, nil
}

func (s *sqlSink) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.truncateSQL(s.table)); err != nil {
		return fmt.Errorf("truncate %s: %w", s.table, err)
	}
	return nil
}

func (s *sqlSink) InsertBatch(ctx context.Context, batch []models.Record) error {
	if len(batch) == 0 {
		return nil
	}
	query := s.dialect.insertSQL(s.table, len(batch))
	if _, err := s.db.ExecContext(ctx, query, batchArgs(batch)...); err != nil {
		return fmt.Errorf("insert %d rows into %s: %w", len(batch), s.table, err)
	}
	return nil
}

func (s *sqlSink) Label() string {
	return s.label
}

func (s *sqlSink) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for verification queries.
func (s *sqlSink) DB() *sql.DB {
	return s.db
}
