package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toshiaki61/sonar/filters"
)

func Test_Result_PreservesRowOrder(t *testing.T) {
	result := filters.BuildResult([]filters.Row{
		filters.BuildRow(3, "alpha:core"),
		filters.BuildRow(2, "foo:bar"),
		filters.BuildRow(4, "foo:org.sonar.core"),
	})

	assert.Equal(t, 3, result.Size())
	assert.Equal(t, []filters.SnapshotID{3, 2, 4}, result.SnapshotIDs())
	assert.Equal(t, filters.SnapshotID(3), result.Rows()[0].SnapshotID())
	assert.Equal(t, "alpha:core", result.Rows()[0].SortKey())
}

func Test_Result_Empty(t *testing.T) {
	result := filters.BuildResult(nil)

	assert.Equal(t, 0, result.Size())
	assert.Empty(t, result.Rows())
	assert.Empty(t, result.SnapshotIDs())
}

func Test_Row_WithoutSortKey(t *testing.T) {
	row := filters.BuildRow(42, nil)

	assert.Equal(t, filters.SnapshotID(42), row.SnapshotID())
	assert.Nil(t, row.SortKey())
}
