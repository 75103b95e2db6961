package sqlengine

const (
	dialectNameSQLite3   = "sqlite3"
	dialectNameSQLServer = "sqlserver"
	dialectNamePostgres  = "postgres"

	sqlServerMeasureJoinHint = "WITH (INDEX(measures_sid_metric))"
)

// Dialect describes one SQL variant the filter engine can target.
//
// Name doubles as the goqu dialect registration key used for rendering.
// MeasureJoinHint returns an optional index hint fragment injected after a
// measure table reference, or "" when the dialect does not use one.
type Dialect interface {
	Name() string
	MeasureJoinHint() string
}

// SQLite returns the embedded SQLite dialect, without a measure join hint.
func SQLite() Dialect {
	return sqliteDialect{}
}

// SQLServer returns the Microsoft SQL Server dialect. It forces the measure
// table's (snapshot_id, metric_id) index through a join hint.
func SQLServer() Dialect {
	return sqlServerDialect{}
}

// Postgres returns the PostgreSQL dialect, without a measure join hint.
func Postgres() Dialect {
	return postgresDialect{}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string {
	return dialectNameSQLite3
}

func (sqliteDialect) MeasureJoinHint() string {
	return ""
}

type sqlServerDialect struct{}

func (sqlServerDialect) Name() string {
	return dialectNameSQLServer
}

func (sqlServerDialect) MeasureJoinHint() string {
	return sqlServerMeasureJoinHint
}

type postgresDialect struct{}

func (postgresDialect) Name() string {
	return dialectNamePostgres
}

func (postgresDialect) MeasureJoinHint() string {
	return ""
}
