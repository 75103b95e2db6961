// Package filters provides the core types for querying a hierarchical
// resource snapshot store.
//
// A Filter describes which snapshots to select and how to order them. It is
// built once per query, compiled and executed by a dialect-specific engine,
// and yields a read-only Result of snapshot rows.
//
// Filters support selection by:
//   - Resource scope, qualifier, and language codes
//   - Snapshot creation time (date criterion, time-precise)
//   - Hierarchy position (direct children or all descendants of a base snapshot)
//   - Resource key glob patterns, case-insensitive
//   - Numeric measure criteria, AND-combined, with same-metric range intersection
//
// and a single sort mode: name, key, date, version, language, or one metric's
// latest measurement with NULLs ordered last.
//
// Key types:
//   - Filter: immutable description of one snapshot query
//   - FilterBuilder: chainable configuration surface producing a Filter
//   - DateCriterion, MeasureCriterion: immutable comparison predicates
//   - Result, Row: the ordered query outcome
//
// Common usage pattern:
//
//	criterion, err := filters.BuildMeasureCriterion(coverageMetricID, filters.OperatorGreater, 50.0, false)
//	if err != nil {
//		// handle error
//	}
//
//	filter, err := filters.BuildSnapshotFilter().
//		OnQualifiers(filters.QualifierProject, filters.QualifierModule).
//		OnLanguages("java").
//		AddMeasureCriterion(criterion).
//		SortByName().
//		Finalize()
//	if err != nil {
//		// handle error
//	}
//
//	result, err := executor.Execute(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	for _, row := range result.Rows() {
//		fmt.Println(row.SnapshotID())
//	}
package filters
