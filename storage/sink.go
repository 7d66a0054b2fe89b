package storage

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"bulk_bench/models"
)

// Sink receives batches of records for one target table.
type Sink interface {
	// Truncate removes every existing row from the table.
	Truncate(ctx context.Context) error
	// InsertBatch writes all records in a single statement. The slice is
	// reused by the caller after the call returns.
	InsertBatch(ctx context.Context, batch []models.Record) error
	// Label is the human name of the database, e.g. "MySQL".
	Label() string
	Close() error
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Open connects to the database behind dsn and verifies the connection.
func Open(ctx context.Context, driver, dsn, table string) (Sink, error) {
	switch driver {
	case DriverMySQL:
		return NewMySQLSink(ctx, dsn, table)
	case DriverPostgres:
		return NewPostgresSink(ctx, dsn, table)
	case DriverSQLite:
		return NewSQLiteSink(ctx, dsn, table)
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}

type dialect struct {
	quote       func(ident string) string
	placeholder func(n int) string
	truncate    string // format string taking the quoted table
}

var (
	mysqlDialect = dialect{
		quote:       func(s string) string { return "`" + strings.ReplaceAll(s, "`", "``") + "`" },
		placeholder: func(int) string { return "?" },
		truncate:    "TRUNCATE TABLE %s",
	}
	postgresDialect = dialect{
		quote:       quoteDouble,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		truncate:    "TRUNCATE TABLE %s",
	}
	sqliteDialect = dialect{
		quote:       quoteDouble,
		placeholder: func(int) string { return "?" },
		truncate:    "DELETE FROM %s",
	}
)

func quoteDouble(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func (d dialect) truncateSQL(table string) string {
	return fmt.Sprintf(d.truncate, d.quote(table))
}

// insertSQL builds one INSERT with rows value tuples.
func (d dialect) insertSQL(table string, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.quote(table))
	b.WriteString(" (")
	for i, col := range models.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.quote(col))
	}
	b.WriteString(") VALUES ")

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range models.Columns {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.placeholder(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// batchArgs flattens the batch into positional arguments, row by row.
func batchArgs(batch []models.Record) []any {
	args := make([]any, 0, len(batch)*models.FieldCount)
	for _, r := range batch {
		args = append(args,
			r.ID, r.Name, r.Description, r.Brand, r.Category,
			ParsePrice(r.Price), r.Currency, ParseStock(r.Stock),
			r.EAN, r.Color, r.Size, r.Availability, r.InternalID,
		)
	}
	return args
}

// ParsePrice returns 0 for anything that is not a finite float.
func ParsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseStock returns 0 for anything that is not an unsigned 32-bit integer.
func ParseStock(s string) int64 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return int64(v)
}
