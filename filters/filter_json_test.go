package filters_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshiaki61/sonar/filters"
)

func Test_FilterJSON_RoundTrip_FullyConfiguredFilter(t *testing.T) {
	// arrange
	dateCriterion, err := filters.BuildDateCriterion(
		filters.OperatorGreater,
		time.Date(2008, 12, 26, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	measureCriterion, err := filters.BuildMeasureCriterion(1, filters.OperatorGreater, 400.0, false)
	require.NoError(t, err)

	variationCriterion, err := filters.BuildMeasureCriterion(2, filters.OperatorLess, 0.0, true)
	require.NoError(t, err)

	original, err := filters.BuildSnapshotFilter().
		OnScopes(filters.ScopeSet, filters.ScopeSpace).
		OnQualifiers(filters.QualifierProject, filters.QualifierModule).
		OnLanguages("java", "go").
		OnResourceIDs(3, 7).
		WithDateCriterion(dateCriterion).
		WithKeyPattern("*:org.sonar.*").
		UnderPath(2, 1, "1.").
		AddMeasureCriterion(measureCriterion).
		AddMeasureCriterion(variationCriterion).
		SortByMeasure(2, true).
		SortAscending(false).
		Finalize()
	require.NoError(t, err)

	// act
	data, err := filters.MarshalFilterJSON(original)
	require.NoError(t, err)

	restored, err := filters.UnmarshalFilterJSON(data)
	require.NoError(t, err)

	// assert
	assert.Equal(t, original, restored)
}

func Test_FilterJSON_RoundTrip_MinimalFilter(t *testing.T) {
	original, err := filters.BuildSnapshotFilter().
		OnQualifiers(filters.QualifierProject).
		Finalize()
	require.NoError(t, err)

	data, err := filters.MarshalFilterJSON(original)
	require.NoError(t, err)

	restored, err := filters.UnmarshalFilterJSON(data)
	require.NoError(t, err)

	assert.Equal(t, original, restored)
}

func Test_FilterJSON_RoundTrip_TextSortModes(t *testing.T) {
	builders := map[string]func(fb *filters.FilterBuilder) *filters.FilterBuilder{
		"name":     func(fb *filters.FilterBuilder) *filters.FilterBuilder { return fb.SortByName() },
		"key":      func(fb *filters.FilterBuilder) *filters.FilterBuilder { return fb.SortByKey() },
		"date":     func(fb *filters.FilterBuilder) *filters.FilterBuilder { return fb.SortByDate() },
		"version":  func(fb *filters.FilterBuilder) *filters.FilterBuilder { return fb.SortByVersion() },
		"language": func(fb *filters.FilterBuilder) *filters.FilterBuilder { return fb.SortByLanguage() },
	}

	for name, configureSort := range builders {
		t.Run(name, func(t *testing.T) {
			original, err := configureSort(filters.BuildSnapshotFilterForAllQualifiers()).Finalize()
			require.NoError(t, err)

			data, err := filters.MarshalFilterJSON(original)
			require.NoError(t, err)

			restored, err := filters.UnmarshalFilterJSON(data)
			require.NoError(t, err)

			assert.Equal(t, original, restored)
		})
	}
}

func Test_UnmarshalFilterJSON_RejectsMalformedDocuments(t *testing.T) {
	for _, data := range [][]byte{
		[]byte(``),
		[]byte(`{`),
		[]byte(`not json`),
		[]byte(`{"sort_field": "banana"}`),
		[]byte(`{"date_operator": ">=", "date": "2008-12-26T00:00:00Z"}`),
		[]byte(`{"measure_criteria": [{"metric_id": 0, "operator": ">", "value": 1}]}`),
	} {
		_, err := filters.UnmarshalFilterJSON(data)

		assert.ErrorIs(t, err, filters.ErrInvalidFilterJSON, "document %s", string(data))
	}
}

func Test_UnmarshalFilterJSON_RevalidatesThroughTheBuilder(t *testing.T) {
	// a stored measure sort without a metric id is as illegal as a fresh one
	_, err := filters.UnmarshalFilterJSON([]byte(`{"sort_field": "measure"}`))

	assert.Error(t, err)
}
