package sqlengine

import (
	"context"
	"math"
	"time"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (fe FilterExecutor) logQueryWithDuration(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	args := []any{
		logAttrDurationMS, toMilliseconds(duration),
		logAttrDialect, fe.dialect.Name(),
		logAttrQuery, sqlQuery,
	}

	if fe.contextualLogger != nil {
		fe.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)

		return
	}

	if fe.logger != nil {
		fe.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (fe FilterExecutor) logOperation(ctx context.Context, action string, args ...any) {
	if fe.contextualLogger != nil {
		fe.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)

		return
	}

	if fe.logger != nil {
		fe.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (fe FilterExecutor) logWarn(ctx context.Context, message string, args ...any) {
	if fe.contextualLogger != nil {
		fe.contextualLogger.WarnContext(ctx, message, args...)

		return
	}

	if fe.logger != nil {
		fe.logger.Warn(message, args...)
	}
}

// logError logs error information at error level if a logger is configured.
func (fe FilterExecutor) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if fe.contextualLogger != nil {
		fe.contextualLogger.ErrorContext(ctx, message, allArgs...)

		return
	}

	if fe.logger != nil {
		fe.logger.Error(message, allArgs...)
	}
}

// recordDurationMetrics records the query duration if a metrics collector is configured.
func (fe FilterExecutor) recordDurationMetrics(_ context.Context, duration time.Duration, status string) {
	if fe.metricsCollector != nil {
		labels := map[string]string{
			labelOperation: logActionQuery,
			labelStatus:    status,
		}
		fe.metricsCollector.RecordDuration(metricQueryDuration, duration, labels)
	}
}

// recordRowCountMetrics records the result size if a metrics collector is configured.
func (fe FilterExecutor) recordRowCountMetrics(_ context.Context, rowCount int) {
	if fe.metricsCollector != nil {
		labels := map[string]string{
			labelOperation: logActionQuery,
			labelStatus:    statusSuccess,
		}
		fe.metricsCollector.RecordValue(metricQueryRows, float64(rowCount), labels)
	}
}

// recordErrorMetrics increments the error counter if a metrics collector is configured.
func (fe FilterExecutor) recordErrorMetrics(_ context.Context, errorType string) {
	if fe.metricsCollector != nil {
		labels := map[string]string{
			labelOperation: logActionQuery,
			labelStatus:    statusError,
			labelErrorType: errorType,
		}
		fe.metricsCollector.IncrementCounter(metricQueryErrors, labels)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
