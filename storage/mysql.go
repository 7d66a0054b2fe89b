package storage

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLSink struct {
	*sqlSink
}

// NewMySQLSink connects with a go-sql-driver DSN such as
// "root:@tcp(127.0.0.1:3306)/benchmark".
func NewMySQLSink(ctx context.Context, dsn, table string) (*MySQLSink, error) {
	s, err := openSQL(ctx, "mysql", dsn, table, "MySQL", mysqlDialect)
	if err != nil {
		return nil, err
	}
	return &MySQLSink{sqlSink: s}, nil
}
