package metrics

import (
	"strings"
)

// NameListMeasurement collects string values. With init text "SET" the
// value counts distinct strings; otherwise every string added is counted.
type NameListMeasurement struct {
	measurementBase
	unique bool
	values []string
	seen   map[string]struct{}
}

func NewNameListMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) *NameListMeasurement {
	return &NameListMeasurement{
		measurementBase: newMeasurementBase(descriptor, context),
		unique:          strings.EqualFold(strings.TrimSpace(initText), "SET"),
		seen:            make(map[string]struct{}),
	}
}

// Add records a string value. Other types are ignored.
func (m *NameListMeasurement) Add(value any) {
	s, ok := value.(string)
	if !ok {
		logger.WithField("measurement", m.ShortName()).Debugf("name list ignores %T value", value)
		return
	}

	if m.unique {
		if _, dup := m.seen[s]; dup {
			return
		}
		m.seen[s] = struct{}{}
	}
	m.values = append(m.values, s)
}

// IsUnique reports whether the list behaves as a set
func (m *NameListMeasurement) IsUnique() bool {
	return m.unique
}

// Values returns a copy of the collected strings in insertion order
func (m *NameListMeasurement) Values() []string {
	out := make([]string, len(m.values))
	copy(out, m.values)
	return out
}

func (m *NameListMeasurement) Value() float64 {
	return float64(len(m.values))
}

func (m *NameListMeasurement) IsEmpty() bool {
	return len(m.values) == 0
}

func (m *NameListMeasurement) IsInRange() bool {
	return m.inRange(m.Value())
}

func (m *NameListMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitNameList(m)
}
