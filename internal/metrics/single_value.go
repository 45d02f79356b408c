package metrics

import (
	"strconv"
	"strings"
)

// SingleValueMeasurement holds a constant parsed from its init text.
// Unparsable or missing text yields 0.
type SingleValueMeasurement struct {
	measurementBase
	value float64
}

func NewSingleValueMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) *SingleValueMeasurement {
	m := &SingleValueMeasurement{measurementBase: newMeasurementBase(descriptor, context)}
	if v, err := strconv.ParseFloat(strings.TrimSpace(initText), 64); err == nil {
		m.value = v
	}
	return m
}

func (m *SingleValueMeasurement) Value() float64 {
	return m.value
}

func (m *SingleValueMeasurement) IsEmpty() bool {
	return m.value == 0
}

func (m *SingleValueMeasurement) IsInRange() bool {
	return m.inRange(m.value)
}

func (m *SingleValueMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitSingleValue(m)
}
