package metrics

import (
	"math"
	"strings"
)

// Plot is a display hint for histogram printers
type Plot int

const (
	PlotLinear Plot = iota
	PlotLogLinear
	PlotLinearLog
	PlotLogLog
)

func (p Plot) String() string {
	switch p {
	case PlotLogLinear:
		return "log-lin"
	case PlotLinearLog:
		return "lin-log"
	case PlotLogLog:
		return "log-log"
	default:
		return "linear"
	}
}

func parsePlot(text string) (Plot, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "PLOT_LINEAR", "PLOT_LIN_LIN", "PLOT_LINEAR_LINEAR":
		return PlotLinear, true
	case "PLOT_LOG_LIN", "PLOT_LOG_LINEAR":
		return PlotLogLinear, true
	case "PLOT_LIN_LOG", "PLOT_LINEAR_LOG":
		return PlotLinearLog, true
	case "PLOT_LOG_LOG":
		return PlotLogLog, true
	default:
		return PlotLinear, false
	}
}

// Bucket is one histogram entry
type Bucket struct {
	Key   float64
	Count int
}

// HistogramMeasurement counts how often each rounded value of a named
// measurement occurs across the whole subtree of its context. Unlike
// StatisticalMeasurement it does not stop at the first node tracking the
// measurement.
//
// Init text:
//
//	NAME [DISPOSE_x]
//	[PLOT_x]
type HistogramMeasurement struct {
	measurementBase
	monitored string
	dispose   Dispose
	plot      Plot
	buckets   memo[[]Bucket]
}

func NewHistogramMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) *HistogramMeasurement {
	m := &HistogramMeasurement{measurementBase: newMeasurementBase(descriptor, context)}

	lines := initLines(initText)
	if len(lines) == 0 {
		return m
	}

	name, dispose, token, known := splitDispose(lines[0])
	if !known {
		logger.WithField("dispose", token).Warn("unknown dispose token, using DISPOSE_IGNORE")
	}
	m.monitored = name
	m.dispose = dispose

	if len(lines) > 1 && lines[1] != "" {
		plot, ok := parsePlot(lines[1])
		if !ok {
			logger.WithField("plot", lines[1]).Warn("unknown plot, using PLOT_LINEAR")
		}
		m.plot = plot
	}
	return m
}

// MonitoredMeasurement returns the name of the measurement read from the subtree
func (m *HistogramMeasurement) MonitoredMeasurement() string {
	return m.monitored
}

func (m *HistogramMeasurement) Plot() Plot {
	return m.plot
}

// Buckets returns the histogram in first-encountered key order
func (m *HistogramMeasurement) Buckets() []Bucket {
	buckets := m.collect()
	out := make([]Bucket, len(buckets))
	copy(out, buckets)
	return out
}

// Histogram returns the bucket counts keyed by rounded value
func (m *HistogramMeasurement) Histogram() map[float64]int {
	out := make(map[float64]int)
	for _, b := range m.collect() {
		out[b.Key] = b.Count
	}
	return out
}

func (m *HistogramMeasurement) collect() []Bucket {
	return m.buckets.load(m.isCached(), func() []Bucket {
		if m.context == nil || m.monitored == "" {
			return nil
		}

		var buckets []Bucket
		index := make(map[float64]int)
		for _, node := range m.context.Descendants() {
			measurement := node.Measurement(m.monitored)
			if measurement == nil {
				continue
			}
			if _, ok := measurement.(*StatisticalMeasurement); ok && m.dispose == DisposeIgnore {
				continue
			}

			// NaN values count in bucket 0
			key := 0.0
			if value := reduce(measurement, m.dispose); !math.IsNaN(value) {
				key = math.Round(value)
			}
			if i, ok := index[key]; ok {
				buckets[i].Count++
				continue
			}
			index[key] = len(buckets)
			buckets = append(buckets, Bucket{Key: key, Count: 1})
		}
		return buckets
	})
}

// Value is the most frequent bucket key, the first encountered on ties
func (m *HistogramMeasurement) Value() float64 {
	result, best := math.NaN(), 0
	for _, b := range m.collect() {
		if b.Count > best {
			result, best = b.Key, b.Count
		}
	}
	return result
}

func (m *HistogramMeasurement) IsEmpty() bool {
	return len(m.collect()) == 0
}

func (m *HistogramMeasurement) IsInRange() bool {
	return m.inRange(m.Value())
}

func (m *HistogramMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitHistogram(m)
}
