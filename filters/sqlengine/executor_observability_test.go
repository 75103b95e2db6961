package sqlengine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshiaki61/sonar/filters"
	. "github.com/toshiaki61/sonar/filters/sqlengine"
	. "github.com/toshiaki61/sonar/test"
)

func Test_Execute_LogsSQLAndOperationSummary(t *testing.T) {
	// setup
	db := GivenFilterTestDB(t)
	GivenSharedFixture(t, db)

	logger := &recordingLogger{}
	executor, err := NewFromSQLDB(db, SQLite(), WithLogger(logger))
	require.NoError(t, err)

	// act
	filter, err := filters.BuildSnapshotFilterForAllQualifiers().Finalize()
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), filter)
	require.NoError(t, err)

	// assert
	assert.NotEmpty(t, logger.messagesFor("debug"), "the SQL statement is logged at debug level")
	assert.NotEmpty(t, logger.messagesFor("info"), "the operation summary is logged at info level")
}

func Test_Execute_PrefersTheContextualLogger(t *testing.T) {
	// setup
	db := GivenFilterTestDB(t)
	GivenSharedFixture(t, db)

	logger := &recordingLogger{}
	contextual := &recordingContextualLogger{}
	executor, err := NewFromSQLDB(db, SQLite(), WithLogger(logger), WithContextualLogger(contextual))
	require.NoError(t, err)

	// act
	filter, err := filters.BuildSnapshotFilterForAllQualifiers().Finalize()
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), filter)
	require.NoError(t, err)

	// assert
	assert.NotEmpty(t, contextual.messagesFor("info"))
	assert.Empty(t, logger.messagesFor("info"), "the plain logger stays silent when a contextual one is configured")
}

func Test_Execute_RecordsDurationAndRowCountMetrics(t *testing.T) {
	// setup
	db := GivenFilterTestDB(t)
	GivenSharedFixture(t, db)

	collector := &recordingMetricsCollector{}
	executor, err := NewFromSQLDB(db, SQLite(), WithMetrics(collector))
	require.NoError(t, err)

	// act
	filter, err := filters.BuildSnapshotFilterForAllQualifiers().Finalize()
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), filter)
	require.NoError(t, err)

	// assert
	assert.Contains(t, collector.durationMetrics(), "filterengine_query_duration_seconds")
	assert.Contains(t, collector.valueMetrics(), "filterengine_query_result_rows")
	assert.Empty(t, collector.counterMetrics(), "no error counter on success")
}

func Test_Execute_RecordsErrorMetrics_OnQueryFailure(t *testing.T) {
	// setup
	db := GivenFilterTestDB(t)

	collector := &recordingMetricsCollector{}
	executor, err := NewFromSQLDB(db, SQLite(), WithMetrics(collector), WithSnapshotTableName("missing_table"))
	require.NoError(t, err)

	// act
	filter, err := filters.BuildSnapshotFilterForAllQualifiers().Finalize()
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), filter)

	// assert
	assert.Error(t, err)
	assert.Contains(t, collector.counterMetrics(), "filterengine_query_errors")
}

/***** recording observability doubles *****/

type recordingLogger struct {
	mu      sync.Mutex
	entries map[string][]string
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record("error", msg) }

func (l *recordingLogger) record(level string, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.entries == nil {
		l.entries = make(map[string][]string)
	}
	l.entries[level] = append(l.entries[level], msg)
}

func (l *recordingLogger) messagesFor(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.entries[level]
}

type recordingContextualLogger struct {
	recordingLogger
}

func (l *recordingContextualLogger) DebugContext(_ context.Context, msg string, _ ...any) {
	l.record("debug", msg)
}

func (l *recordingContextualLogger) InfoContext(_ context.Context, msg string, _ ...any) {
	l.record("info", msg)
}

func (l *recordingContextualLogger) WarnContext(_ context.Context, msg string, _ ...any) {
	l.record("warn", msg)
}

func (l *recordingContextualLogger) ErrorContext(_ context.Context, msg string, _ ...any) {
	l.record("error", msg)
}

type recordingMetricsCollector struct {
	mu        sync.Mutex
	durations []string
	counters  []string
	values    []string
}

func (c *recordingMetricsCollector) RecordDuration(metric string, _ time.Duration, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.durations = append(c.durations, metric)
}

func (c *recordingMetricsCollector) IncrementCounter(metric string, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters = append(c.counters, metric)
}

func (c *recordingMetricsCollector) RecordValue(metric string, _ float64, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, metric)
}

func (c *recordingMetricsCollector) durationMetrics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.durations
}

func (c *recordingMetricsCollector) counterMetrics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counters
}

func (c *recordingMetricsCollector) valueMetrics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.values
}
