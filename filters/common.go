package filters

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when a nil database connection is supplied to a constructor.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrNilDialect is returned when a nil dialect is supplied to a constructor.
	ErrNilDialect = errors.New("sql dialect must not be nil")

	// ErrEmptyTableName is returned when an empty table name is supplied to a table name option.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrConflictingSortModes is returned when more than one sort mode is configured on a filter.
	ErrConflictingSortModes = errors.New("conflicting sort modes, at most one sort mode is allowed")

	// ErrUnsupportedOperator is returned when a criterion is built with an operator it does not support.
	ErrUnsupportedOperator = errors.New("unsupported comparison operator")

	// ErrInvalidMetricID is returned when a measure criterion or measure sort is built with a non-positive metric id.
	ErrInvalidMetricID = errors.New("metric id must be positive")

	// ErrBuildingQueryFailed is returned when the snapshot query could not be rendered to SQL.
	ErrBuildingQueryFailed = errors.New("building the query failed")

	// ErrQueryingSnapshotsFailed is returned when the snapshot query execution fails.
	ErrQueryingSnapshotsFailed = errors.New("querying snapshots failed")

	// ErrScanningDBRowFailed is returned when a result row could not be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")
)

// SnapshotID is a type alias for int64, the identifier of a snapshot row.
type SnapshotID = int64

// ResourceID is a type alias for int64, the identifier of a resource.
type ResourceID = int64

// MetricID is a type alias for int64, the identifier of a metric.
type MetricID = int64
