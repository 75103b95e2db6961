package filters_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshiaki61/sonar/filters"
)

func Test_BuildDateCriterion_SupportsGreaterAndLess(t *testing.T) {
	date := time.Date(2008, 12, 26, 0, 0, 0, 0, time.UTC)

	for _, operator := range []filters.Operator{filters.OperatorGreater, filters.OperatorLess} {
		criterion, err := filters.BuildDateCriterion(operator, date)

		require.NoError(t, err)
		assert.Equal(t, operator, criterion.Operator())
		assert.Equal(t, date, criterion.Date())
		assert.False(t, criterion.IsZero())
	}
}

func Test_BuildDateCriterion_RejectsOtherOperators(t *testing.T) {
	date := time.Date(2008, 12, 26, 0, 0, 0, 0, time.UTC)

	for _, operator := range []filters.Operator{
		filters.OperatorGreaterEqual,
		filters.OperatorLessEqual,
		filters.OperatorEqual,
		"between",
		"",
	} {
		_, err := filters.BuildDateCriterion(operator, date)

		assert.ErrorIs(t, err, filters.ErrUnsupportedOperator, "operator %q", operator)
	}
}

func Test_DateCriterion_ZeroValue(t *testing.T) {
	var criterion filters.DateCriterion

	assert.True(t, criterion.IsZero())
}

func Test_BuildMeasureCriterion_SupportsAllComparisonOperators(t *testing.T) {
	for _, operator := range []filters.Operator{
		filters.OperatorGreater,
		filters.OperatorLess,
		filters.OperatorGreaterEqual,
		filters.OperatorLessEqual,
		filters.OperatorEqual,
	} {
		criterion, err := filters.BuildMeasureCriterion(2, operator, 50.0, false)

		require.NoError(t, err)
		assert.Equal(t, filters.MetricID(2), criterion.MetricID())
		assert.Equal(t, operator, criterion.Operator())
		assert.InDelta(t, 50.0, criterion.Value(), 0.0001)
		assert.False(t, criterion.OnVariation())
	}
}

func Test_BuildMeasureCriterion_OnVariation(t *testing.T) {
	criterion, err := filters.BuildMeasureCriterion(2, filters.OperatorGreater, 0.0, true)

	require.NoError(t, err)
	assert.True(t, criterion.OnVariation())
}

func Test_BuildMeasureCriterion_RejectsUnknownOperators(t *testing.T) {
	_, err := filters.BuildMeasureCriterion(2, "~", 50.0, false)

	assert.ErrorIs(t, err, filters.ErrUnsupportedOperator)
}

func Test_BuildMeasureCriterion_RejectsNonPositiveMetricIDs(t *testing.T) {
	for _, metricID := range []filters.MetricID{0, -1} {
		_, err := filters.BuildMeasureCriterion(metricID, filters.OperatorGreater, 50.0, false)

		assert.ErrorIs(t, err, filters.ErrInvalidMetricID)
	}
}
