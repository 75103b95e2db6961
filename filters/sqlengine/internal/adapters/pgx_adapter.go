package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toshiaki61/sonar/filters"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
type PGXAdapter struct {
	pool        *pgxpool.Pool
	replicaPool *pgxpool.Pool // optional replica for eventually consistent reads
}

// NewPGXAdapter creates a new PGX adapter with a primary pool.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

// NewPGXAdapterWithReplica creates a new PGX adapter with a primary pool and a replica pool.
func NewPGXAdapterWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool, replicaPool: replica}
}

// Query executes a query using the replica pool when the context requests
// eventual consistency and a replica is configured, otherwise the primary pool.
func (p *PGXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	pool := p.pool // default to primary

	if p.replicaPool != nil && filters.GetConsistencyLevel(ctx) == filters.EventualConsistency {
		pool = p.replicaPool
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// pgxRows wraps pgx.Rows to implement the DBRows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Scan copies row values into provided destinations.
func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

// Err returns the error, if any, encountered during iteration.
func (p *pgxRows) Err() error {
	return p.rows.Err()
}

// Close closes the rows iterator.
func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}
