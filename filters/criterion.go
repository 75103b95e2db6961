package filters

import (
	"time"
)

// Operator is a comparison operator applied by a criterion.
type Operator string

const (
	OperatorGreater      Operator = ">"
	OperatorLess         Operator = "<"
	OperatorGreaterEqual Operator = ">="
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "="
)

/***** DateCriterion *****/

// DateCriterion compares the snapshot creation instant against a fixed point in time.
// The comparison keeps full date and time precision, it is never truncated to whole days.
type DateCriterion struct {
	operator Operator
	date     time.Time
}

// BuildDateCriterion creates a DateCriterion.
// Only OperatorGreater and OperatorLess are supported for dates.
func BuildDateCriterion(operator Operator, date time.Time) (DateCriterion, error) {
	switch operator {
	case OperatorGreater, OperatorLess:
		return DateCriterion{operator: operator, date: date}, nil
	default:
		return DateCriterion{}, ErrUnsupportedOperator
	}
}

func (dc DateCriterion) Operator() Operator {
	return dc.operator
}

func (dc DateCriterion) Date() time.Time {
	return dc.date
}

// IsZero reports whether the criterion was never configured.
func (dc DateCriterion) IsZero() bool {
	return dc.operator == "" && dc.date.IsZero()
}

/***** MeasureCriterion *****/

// MeasureCriterion compares a resource's latest measurement of one metric against a threshold.
// A resource with no measurement for the metric never satisfies the criterion.
type MeasureCriterion struct {
	metricID    MetricID
	operator    Operator
	value       float64
	onVariation bool
}

// BuildMeasureCriterion creates a MeasureCriterion.
// With onVariation enabled the criterion compares the measurement's variation instead of its value.
func BuildMeasureCriterion(
	metricID MetricID,
	operator Operator,
	value float64,
	onVariation bool,
) (MeasureCriterion, error) {

	if metricID <= 0 {
		return MeasureCriterion{}, ErrInvalidMetricID
	}

	switch operator {
	case OperatorGreater, OperatorLess, OperatorGreaterEqual, OperatorLessEqual, OperatorEqual:
		return MeasureCriterion{metricID: metricID, operator: operator, value: value, onVariation: onVariation}, nil
	default:
		return MeasureCriterion{}, ErrUnsupportedOperator
	}
}

func (mc MeasureCriterion) MetricID() MetricID {
	return mc.metricID
}

func (mc MeasureCriterion) Operator() Operator {
	return mc.operator
}

func (mc MeasureCriterion) Value() float64 {
	return mc.value
}

func (mc MeasureCriterion) OnVariation() bool {
	return mc.onVariation
}
