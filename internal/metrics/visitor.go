package metrics

// MeasurementVisitor dispatches on the concrete measurement variant.
// Printers and exporters implement it; embed NoopVisitor to handle a subset.
type MeasurementVisitor interface {
	VisitCounter(m *CounterMeasurement)
	VisitSingleValue(m *SingleValueMeasurement)
	VisitNameList(m *NameListMeasurement)
	VisitStatistical(m *StatisticalMeasurement)
	VisitRatio(m *RatioMeasurement)
	VisitSum(m *SumMeasurement)
	VisitNbSubMetrics(m *NbSubMetricsMeasurement)
	VisitContextAccumulator(m *ContextAccumulatorMeasurement)
	VisitSubMetricsAccumulator(m *SubMetricsAccumulatorMeasurement)
	VisitHistogram(m *HistogramMeasurement)
}

// NoopVisitor implements MeasurementVisitor with empty methods
type NoopVisitor struct{}

func (NoopVisitor) VisitCounter(*CounterMeasurement)                             {}
func (NoopVisitor) VisitSingleValue(*SingleValueMeasurement)                     {}
func (NoopVisitor) VisitNameList(*NameListMeasurement)                           {}
func (NoopVisitor) VisitStatistical(*StatisticalMeasurement)                     {}
func (NoopVisitor) VisitRatio(*RatioMeasurement)                                 {}
func (NoopVisitor) VisitSum(*SumMeasurement)                                     {}
func (NoopVisitor) VisitNbSubMetrics(*NbSubMetricsMeasurement)                   {}
func (NoopVisitor) VisitContextAccumulator(*ContextAccumulatorMeasurement)       {}
func (NoopVisitor) VisitSubMetricsAccumulator(*SubMetricsAccumulatorMeasurement) {}
func (NoopVisitor) VisitHistogram(*HistogramMeasurement)                         {}

// KindOf returns the variant kind of a measurement
func KindOf(m Measurement) Kind {
	switch m.(type) {
	case *CounterMeasurement:
		return KindCounter
	case *SingleValueMeasurement:
		return KindSingleValue
	case *NameListMeasurement:
		return KindNameList
	case *StatisticalMeasurement:
		return KindStatistical
	case *RatioMeasurement:
		return KindRatio
	case *SumMeasurement:
		return KindSum
	case *NbSubMetricsMeasurement:
		return KindNbSubMetrics
	case *ContextAccumulatorMeasurement:
		return KindContextAccumulator
	case *SubMetricsAccumulatorMeasurement:
		return KindSubMetricsAccumulator
	case *HistogramMeasurement:
		return KindHistogram
	default:
		return ""
	}
}
