package adapters

import (
	"context"
	"database/sql"
)

// DBAdapter defines the interface for database operations needed by the filter engine.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// stdRows wraps standard library sql.Rows to implement DBRows interface.
type stdRows struct {
	rows *sql.Rows
}

// Next advances to the next row.
func (s *stdRows) Next() bool {
	return s.rows.Next()
}

// Scan copies row values into provided destinations.
func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

// Err returns the error, if any, encountered during iteration.
func (s *stdRows) Err() error {
	return s.rows.Err()
}

// Close closes the rows iterator.
func (s *stdRows) Close() error {
	return s.rows.Close()
}
