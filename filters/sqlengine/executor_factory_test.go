package sqlengine_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshiaki61/sonar/filters"
	. "github.com/toshiaki61/sonar/filters/sqlengine"
	. "github.com/toshiaki61/sonar/test"
)

func Test_NewFromSQLDB_WithNilConnection_Fails(t *testing.T) {
	_, err := NewFromSQLDB(nil, SQLite())

	assert.ErrorIs(t, err, filters.ErrNilDatabaseConnection)
}

func Test_NewFromSQLDB_WithNilDialect_Fails(t *testing.T) {
	db := GivenFilterTestDB(t)

	_, err := NewFromSQLDB(db, nil)

	assert.ErrorIs(t, err, filters.ErrNilDialect)
}

func Test_NewFromSQLX_WithNilConnection_Fails(t *testing.T) {
	_, err := NewFromSQLX(nil, SQLite())

	assert.ErrorIs(t, err, filters.ErrNilDatabaseConnection)
}

func Test_NewFromSQLX_WorksWithAWrappedConnection(t *testing.T) {
	db := GivenFilterTestDB(t)

	executor, err := NewFromSQLX(sqlx.NewDb(db, "sqlite3"), SQLite())

	assert.NoError(t, err)
	assert.Equal(t, "sqlite3", executor.Dialect().Name())
}

func Test_NewFromPGXPool_WithNilPool_Fails(t *testing.T) {
	_, err := NewFromPGXPool(nil)

	assert.ErrorIs(t, err, filters.ErrNilDatabaseConnection)
}

func Test_NewFromPGXPoolWithReplica_WithNilPools_Fails(t *testing.T) {
	_, err := NewFromPGXPoolWithReplica(nil, nil)

	assert.ErrorIs(t, err, filters.ErrNilDatabaseConnection)
}

func Test_New_WithEmptyTableName_Fails(t *testing.T) {
	db := GivenFilterTestDB(t)

	for _, option := range []Option{
		WithSnapshotTableName(""),
		WithResourceTableName(""),
		WithMeasureTableName(""),
	} {
		_, err := NewFromSQLDB(db, SQLite(), option)

		assert.ErrorIs(t, err, filters.ErrEmptyTableName)
	}
}

func Test_DialectNames(t *testing.T) {
	assert.Equal(t, "sqlite3", SQLite().Name())
	assert.Equal(t, "postgres", Postgres().Name())
	assert.Equal(t, "sqlserver", SQLServer().Name())
}

func Test_DialectHints(t *testing.T) {
	assert.Empty(t, SQLite().MeasureJoinHint())
	assert.Empty(t, Postgres().MeasureJoinHint())
	assert.Equal(t, "WITH (INDEX(measures_sid_metric))", SQLServer().MeasureJoinHint())
}

func Test_New_AcceptsObservabilityOptions(t *testing.T) {
	db := GivenFilterTestDB(t)

	_, err := NewFromSQLDB(
		db,
		SQLite(),
		WithLogger(&recordingLogger{}),
		WithContextualLogger(&recordingContextualLogger{}),
		WithMetrics(&recordingMetricsCollector{}),
	)

	require.NoError(t, err)
}
