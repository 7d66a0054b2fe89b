package storage

import (
	"context"
	"fmt"
	"time"

	"bulk_bench/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSink struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresSink(ctx context.Context, connString, table string) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 1
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresSink{pool: pool, table: table}, nil
}

func (s *PostgresSink) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresDialect.truncateSQL(s.table)); err != nil {
		return fmt.Errorf("truncate %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresSink) InsertBatch(ctx context.Context, batch []models.Record) error {
	if len(batch) == 0 {
		return nil
	}
	query := postgresDialect.insertSQL(s.table, len(batch))
	if _, err := s.pool.Exec(ctx, query, batchArgs(batch)...); err != nil {
		return fmt.Errorf("insert %d rows into %s: %w", len(batch), s.table, err)
	}
	return nil
}

func (s *PostgresSink) Label() string {
	return "PostgreSQL"
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
