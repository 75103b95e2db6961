// Package adapters provides database adapter implementations for the filter engine.
//
// This package implements the adapter pattern to support multiple database
// client libraries: pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide
// equivalent functionality through a common DBAdapter interface, allowing the
// filter engine to work seamlessly with any supported connection type.
//
// The pgx adapter additionally supports read routing to an optional replica
// pool, steered by the consistency level carried in the query context.
package adapters
