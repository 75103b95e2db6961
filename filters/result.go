package filters

/***** Row *****/

// Row is one snapshot returned by a filter query. It carries the snapshot
// identifier, the stable join key into the resource hierarchy, and the opaque
// sort key the ordering was produced from.
type Row struct {
	snapshotID SnapshotID
	sortKey    any
}

// BuildRow creates a result Row. The sortKey is nil for unsorted queries and
// for snapshots lacking the sorted measurement.
func BuildRow(snapshotID SnapshotID, sortKey any) Row {
	return Row{snapshotID: snapshotID, sortKey: sortKey}
}

func (r Row) SnapshotID() SnapshotID {
	return r.snapshotID
}

// SortKey returns the value the row was ordered by, nil when the query was
// unsorted or the sorted measurement is absent on this snapshot.
func (r Row) SortKey() any {
	return r.sortKey
}

/***** Result *****/

// Result is the read-only outcome of one filter query. It preserves the row
// order the query produced, which is the filter's sort order if one was
// configured.
type Result struct {
	rows []Row
}

// BuildResult creates a Result preserving the given row order.
func BuildResult(rows []Row) Result {
	return Result{rows: rows}
}

func (r Result) Size() int {
	return len(r.rows)
}

func (r Result) Rows() []Row {
	return r.rows
}

// SnapshotIDs returns the snapshot identifiers in row order.
func (r Result) SnapshotIDs() []SnapshotID {
	ids := make([]SnapshotID, len(r.rows))
	for i, row := range r.rows {
		ids[i] = row.snapshotID
	}

	return ids
}
