package filters_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshiaki61/sonar/filters"
)

//nolint:funlen
func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (filters.Filter, error)
		validate func(t *testing.T, filter filters.Filter)
	}{
		{
			name: "empty_filter_matches_nothing",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.True(t, f.MatchesNothing())
				assert.Empty(t, f.Qualifiers())
				assert.False(t, f.IsSorted())
				assert.True(t, f.IsAscendingSort())
			},
		},
		{
			name: "all_qualifiers_filter_matches_every_resource_type",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilterForAllQualifiers().Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.False(t, f.MatchesNothing())
				assert.ElementsMatch(t, filters.AllQualifiers(), f.Qualifiers())
			},
		},
		{
			name: "scopes_are_sanitized",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().
					OnScopes(filters.ScopeSpace, "", filters.ScopeSet, filters.ScopeSpace).
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.Equal(t, []string{filters.ScopeSpace, filters.ScopeSet}, f.Scopes())
			},
		},
		{
			name: "qualifiers_are_sanitized",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().
					OnQualifiers(filters.QualifierProject, filters.QualifierProject, "").
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.Equal(t, []string{filters.QualifierProject}, f.Qualifiers())
				assert.False(t, f.MatchesNothing())
			},
		},
		{
			name: "languages_are_sanitized",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().
					OnQualifiers(filters.QualifierProject).
					OnLanguages("java", "go", "java", "").
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.Equal(t, []string{"go", "java"}, f.Languages())
			},
		},
		{
			name: "resource_ids_are_sanitized",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().
					OnQualifiers(filters.QualifierProject).
					OnResourceIDs(7, 3, 7, -1, 0).
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.Equal(t, []filters.ResourceID{3, 7}, f.ResourceIDs())
			},
		},
		{
			name: "setters_are_last_write_wins",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().
					OnQualifiers(filters.QualifierProject).
					OnQualifiers(filters.QualifierClass).
					WithKeyPattern("*foo*").
					WithKeyPattern("*bar*").
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.Equal(t, []string{filters.QualifierClass}, f.Qualifiers())
				assert.Equal(t, "*bar*", f.KeyPattern())
			},
		},
		{
			name: "date_criterion",
			build: func() (filters.Filter, error) {
				criterion, err := filters.BuildDateCriterion(
					filters.OperatorLess,
					time.Date(2008, 12, 25, 3, 0, 0, 0, time.UTC),
				)
				require.NoError(t, err)

				return filters.BuildSnapshotFilterForAllQualifiers().
					WithDateCriterion(criterion).
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.False(t, f.DateCriterion().IsZero())
				assert.Equal(t, filters.OperatorLess, f.DateCriterion().Operator())
				assert.Equal(t, time.Date(2008, 12, 25, 3, 0, 0, 0, time.UTC), f.DateCriterion().Date())
			},
		},
		{
			name: "path_constraint_for_direct_children",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilterForAllQualifiers().
					UnderPath(2, 0, "").
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.False(t, f.Path().IsZero())
				assert.Equal(t, filters.SnapshotID(2), f.Path().BaseSnapshotID())
				assert.Empty(t, f.Path().Suffix())
			},
		},
		{
			name: "measure_criteria_append",
			build: func() (filters.Filter, error) {
				first, err := filters.BuildMeasureCriterion(1, filters.OperatorGreater, 400.0, false)
				require.NoError(t, err)
				second, err := filters.BuildMeasureCriterion(1, filters.OperatorLess, 600.0, false)
				require.NoError(t, err)

				return filters.BuildSnapshotFilter().
					OnQualifiers(filters.QualifierClass).
					AddMeasureCriterion(first).
					AddMeasureCriterion(second).
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				require.Len(t, f.MeasureCriteria(), 2)
				assert.Equal(t, filters.OperatorGreater, f.MeasureCriteria()[0].Operator())
				assert.Equal(t, filters.OperatorLess, f.MeasureCriteria()[1].Operator())
			},
		},
		{
			name: "zero_value_measure_criteria_are_ignored",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().
					OnQualifiers(filters.QualifierClass).
					AddMeasureCriterion(filters.MeasureCriterion{}).
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.Empty(t, f.MeasureCriteria())
			},
		},
		{
			name: "sort_by_measure",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilter().
					OnQualifiers(filters.QualifierClass).
					SortByMeasure(2, false).
					SortAscending(false).
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.True(t, f.IsSorted())
				assert.True(t, f.IsSortedByMeasure())
				assert.Equal(t, filters.MetricID(2), f.SortMetricID())
				assert.False(t, f.SortOnVariation())
				assert.False(t, f.IsAscendingSort())
			},
		},
		{
			name: "repeating_the_same_sort_mode_is_idempotent",
			build: func() (filters.Filter, error) {
				return filters.BuildSnapshotFilterForAllQualifiers().
					SortByName().
					SortByName().
					Finalize()
			},
			validate: func(t *testing.T, f filters.Filter) {
				assert.Equal(t, filters.SortFieldName, f.SortedBy())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filter, err := tc.build()
			require.NoError(t, err)
			tc.validate(t, filter)
		})
	}
}

func Test_FilterBuilder_ConflictingSortModes_FailFast(t *testing.T) {
	_, err := filters.BuildSnapshotFilterForAllQualifiers().
		SortByName().
		SortByDate().
		Finalize()

	assert.ErrorIs(t, err, filters.ErrConflictingSortModes)
}

func Test_FilterBuilder_ConflictingMeasureSort_FailFast(t *testing.T) {
	_, err := filters.BuildSnapshotFilterForAllQualifiers().
		SortByKey().
		SortByMeasure(2, false).
		Finalize()

	assert.ErrorIs(t, err, filters.ErrConflictingSortModes)
}

func Test_FilterBuilder_MeasureSortWithoutMetric_FailFast(t *testing.T) {
	_, err := filters.BuildSnapshotFilterForAllQualifiers().
		SortByMeasure(0, false).
		Finalize()

	assert.ErrorIs(t, err, filters.ErrInvalidMetricID)
}

func Test_SortField_String(t *testing.T) {
	assert.Equal(t, "none", filters.SortFieldNone.String())
	assert.Equal(t, "name", filters.SortFieldName.String())
	assert.Equal(t, "key", filters.SortFieldKey.String())
	assert.Equal(t, "date", filters.SortFieldDate.String())
	assert.Equal(t, "version", filters.SortFieldVersion.String())
	assert.Equal(t, "language", filters.SortFieldLanguage.String())
	assert.Equal(t, "measure", filters.SortFieldMeasure.String())
}
