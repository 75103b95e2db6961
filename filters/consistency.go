package filters

import "context"

// ConsistencyLevel defines the consistency requirements for filter query execution.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads from the primary database so a query
	// observes all completed analyses. This is the default for filter queries.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from replica databases, trading
	// freshness for performance. Suitable for dashboard style queries that can
	// tolerate slightly stale snapshots in exchange for a reduced load on the
	// primary database.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "filters.consistency_level"

// WithStrongConsistency returns a context that signals filter queries should
// use the primary database.
//
// Example usage:
//
//	ctx = filters.WithStrongConsistency(ctx)
//	result, err := executor.Execute(ctx, filter)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that signals filter queries may
// use replica databases.
//
// Example usage:
//
//	ctx = filters.WithEventualConsistency(ctx)
//	result, err := executor.Execute(ctx, filter)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// If no consistency level is set, it returns StrongConsistency as the safe default.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging and debugging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
