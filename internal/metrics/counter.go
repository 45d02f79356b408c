package metrics

import (
	"strconv"
	"strings"
)

// CounterMeasurement keeps a running sum of the numbers added to it.
// The init text, when numeric, seeds the initial value.
type CounterMeasurement struct {
	measurementBase
	value float64
}

func NewCounterMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) *CounterMeasurement {
	m := &CounterMeasurement{measurementBase: newMeasurementBase(descriptor, context)}
	if text := strings.TrimSpace(initText); text != "" {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			m.value = v
		}
	}
	return m
}

// Add increments the counter. Non-numeric values are ignored.
func (m *CounterMeasurement) Add(value any) {
	v, ok := toFloat(value)
	if !ok {
		logger.WithField("measurement", m.ShortName()).Debugf("counter ignores %T value", value)
		return
	}
	m.value += v
}

func (m *CounterMeasurement) Value() float64 {
	return m.value
}

func (m *CounterMeasurement) IsEmpty() bool {
	return m.value == 0
}

func (m *CounterMeasurement) IsInRange() bool {
	return m.inRange(m.Value())
}

func (m *CounterMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitCounter(m)
}
