package metrics

// SumMeasurement adds up signed terms, one per init text line. Blank lines
// and lines holding a lone "-" are skipped.
type SumMeasurement struct {
	measurementBase
	terms []term
	state memo[snapshot]
}

func NewSumMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) *SumMeasurement {
	m := &SumMeasurement{measurementBase: newMeasurementBase(descriptor, context)}
	for _, line := range initLines(initText) {
		if line == "" || line == "-" {
			continue
		}
		m.terms = append(m.terms, parseTerm(line))
	}
	return m
}

func (m *SumMeasurement) compute() snapshot {
	result := snapshot{empty: true}
	for _, t := range m.terms {
		result.value += t.evaluate(m.context)
		if source := t.resolve(m.context); source != nil && !source.IsEmpty() {
			result.empty = false
		}
	}
	return result
}

func (m *SumMeasurement) Value() float64 {
	return m.state.load(m.isCached(), m.compute).value
}

// IsEmpty is true when every referenced measurement is empty. Constants do not count.
func (m *SumMeasurement) IsEmpty() bool {
	return m.state.load(m.isCached(), m.compute).empty
}

func (m *SumMeasurement) IsInRange() bool {
	return m.inRange(m.Value())
}

func (m *SumMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitSum(m)
}
