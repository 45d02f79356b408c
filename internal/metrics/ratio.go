package metrics

import (
	"math"
	"strconv"
)

// RatioMeasurement divides a base term by a divider term.
//
// Init text lines: base, divider, then optional defaults for 0/0, +Inf and
// -Inf. A blank or unparsable default line means no default.
type RatioMeasurement struct {
	measurementBase
	base          *term
	divider       *term
	nanDefault    *float64
	posInfDefault *float64
	negInfDefault *float64
	state         memo[snapshot]
}

func NewRatioMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) *RatioMeasurement {
	m := &RatioMeasurement{measurementBase: newMeasurementBase(descriptor, context)}

	lines := initLines(initText)
	if len(lines) < 2 {
		logger.WithField("measurement", m.ShortName()).Debug("ratio needs a base and a divider")
		return m
	}

	base, divider := parseTerm(lines[0]), parseTerm(lines[1])
	m.base, m.divider = &base, &divider

	defaults := []**float64{&m.nanDefault, &m.posInfDefault, &m.negInfDefault}
	for i, target := range defaults {
		if 2+i < len(lines) {
			*target = parseDefault(lines[2+i])
		}
	}
	return m
}

func parseDefault(line string) *float64 {
	if line == "" {
		return nil
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		logger.WithField("default", line).Debug("ignoring unparsable ratio default")
		return nil
	}
	return &v
}

// Base returns the reduced base operand
func (m *RatioMeasurement) Base() float64 {
	if m.base == nil {
		return math.NaN()
	}
	return m.base.evaluate(m.context)
}

// Divider returns the reduced divider operand
func (m *RatioMeasurement) Divider() float64 {
	if m.divider == nil {
		return math.NaN()
	}
	return m.divider.evaluate(m.context)
}

func (m *RatioMeasurement) compute() snapshot {
	if m.base == nil || m.divider == nil {
		return snapshot{value: math.NaN(), empty: true}
	}

	base, divider := m.Base(), m.Divider()
	value := base / divider

	switch {
	case math.IsNaN(value) && m.nanDefault != nil && base == 0 && divider == 0:
		value = *m.nanDefault
	case math.IsInf(value, 1) && m.posInfDefault != nil:
		value = *m.posInfDefault
	case math.IsInf(value, -1) && m.negInfDefault != nil:
		value = *m.negInfDefault
	}

	return snapshot{value: value, empty: base == 0 && divider == 0}
}

func (m *RatioMeasurement) Value() float64 {
	return m.state.load(m.isCached(), m.compute).value
}

func (m *RatioMeasurement) IsEmpty() bool {
	return m.state.load(m.isCached(), m.compute).empty
}

func (m *RatioMeasurement) IsInRange() bool {
	return m.inRange(m.Value())
}

func (m *RatioMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitRatio(m)
}
