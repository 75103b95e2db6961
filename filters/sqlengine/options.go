package sqlengine

import (
	"github.com/toshiaki61/sonar/filters"
)

// Option defines a functional option for configuring FilterExecutor.
type Option func(*FilterExecutor) error

// WithSnapshotTableName sets the snapshot table name for the FilterExecutor.
func WithSnapshotTableName(tableName string) Option {
	return func(fe *FilterExecutor) error {
		if tableName == "" {
			return filters.ErrEmptyTableName
		}

		fe.snapshotTableName = tableName

		return nil
	}
}

// WithResourceTableName sets the resource table name for the FilterExecutor.
func WithResourceTableName(tableName string) Option {
	return func(fe *FilterExecutor) error {
		if tableName == "" {
			return filters.ErrEmptyTableName
		}

		fe.resourceTableName = tableName

		return nil
	}
}

// WithMeasureTableName sets the measure table name for the FilterExecutor.
func WithMeasureTableName(tableName string) Option {
	return func(fe *FilterExecutor) error {
		if tableName == "" {
			return filters.ErrEmptyTableName
		}

		fe.measureTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the FilterExecutor.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Result sizes and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause query failures.
func WithLogger(logger filters.Logger) Option {
	return func(fe *FilterExecutor) error {
		fe.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the FilterExecutor.
// The contextual logger will receive log messages with context information,
// enabling automatic trace correlation in backends that support it.
func WithContextualLogger(logger filters.ContextualLogger) Option {
	return func(fe *FilterExecutor) error {
		fe.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the FilterExecutor.
// The metrics collector will receive query durations, result sizes,
// and database error counters.
func WithMetrics(collector filters.MetricsCollector) Option {
	return func(fe *FilterExecutor) error {
		fe.metricsCollector = collector
		return nil
	}
}
