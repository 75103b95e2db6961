// Package sqlengine compiles snapshot filters into dialect-specific SQL and
// executes them against a relational snapshot store.
//
// The engine anchors every query on the snapshot table, joins the resource
// table, adds one inner join per measure criterion so criteria on the same
// metric intersect as a range, and an outer join for a measure sort so
// snapshots without the sorted measurement stay in the result, ordered last.
// Statements are built as goqu expression trees and rendered once, in
// prepared mode, so every literal becomes a bound parameter.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Dialect strategies for SQLite, PostgreSQL, and SQL Server, including
//     the SQL Server measure index hint
//   - ToSQL for inspecting the exact statement Execute would run
//   - Configurable table names, dual-logger support, and metrics collection
//   - Optional read routing to a replica pool via context consistency levels
//
// Usage examples:
//
//	// Embedded SQLite
//	db, _ := sql.Open("sqlite3", "sonar.db")
//	executor, _ := sqlengine.NewFromSQLDB(db, sqlengine.SQLite())
//
//	// PostgreSQL with operational logging
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	executor, _ := sqlengine.NewFromPGXPool(
//		pool,
//		sqlengine.WithLogger(logger),
//		sqlengine.WithMetrics(collector),
//	)
//
//	result, _ := executor.Execute(ctx, filter)
package sqlengine
