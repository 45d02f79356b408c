package metrics

import (
	"math"
	"regexp"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"
)

var (
	percentileLine = regexp.MustCompile(`(?i)^\s*P\s*\d+`)
	digits         = regexp.MustCompile(`\d+`)
)

// StatisticalMeasurement computes descriptive statistics over the values a
// named measurement takes in the sub-metrics of its context.
//
// Init text:
//
//	NAME [DISPOSE_x]     monitored measurement, and how to read it when it is itself statistical
//	[DISPOSE_y]          which statistic is this measurement's own value (default DISPOSE_AVERAGE)
//	[P nn [nn]...]...    percentiles to report, one or more per line
type StatisticalMeasurement struct {
	measurementBase
	monitored   string
	dispose     Dispose
	selfDispose Dispose
	percentiles []int
	data        memo[dataSet]
}

func NewStatisticalMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) *StatisticalMeasurement {
	m := &StatisticalMeasurement{
		measurementBase: newMeasurementBase(descriptor, context),
		selfDispose:     DisposeAverage,
	}

	lines := initLines(initText)
	if len(lines) == 0 {
		return m
	}

	name, dispose, token, known := splitDispose(lines[0])
	if !known {
		logger.WithFields(logrus.Fields{"measurement": m.ShortName(), "dispose": token}).
			Warn("unknown dispose token, using DISPOSE_IGNORE")
	}
	m.monitored = name
	m.dispose = dispose

	for i, line := range lines[1:] {
		if line == "" {
			continue
		}
		if percentileLine.MatchString(line) {
			for _, p := range digits.FindAllString(line, -1) {
				n, _ := strconv.Atoi(p)
				m.percentiles = append(m.percentiles, n)
			}
			continue
		}
		if i == 0 {
			if d, ok := ParseDispose(line); ok {
				m.selfDispose = d
				continue
			}
			logger.WithFields(logrus.Fields{"measurement": m.ShortName(), "dispose": line}).
				Warn("unknown self dispose, using DISPOSE_AVERAGE")
			continue
		}
		logger.WithFields(logrus.Fields{"measurement": m.ShortName(), "line": line}).
			Warn("ignoring unrecognized init text line")
	}
	return m
}

// MonitoredMeasurement returns the name of the measurement read from sub-metrics
func (m *StatisticalMeasurement) MonitoredMeasurement() string {
	return m.monitored
}

// Dispose returns how statistical sub-measurements are read
func (m *StatisticalMeasurement) Dispose() Dispose {
	return m.dispose
}

// SelfDispose returns which statistic Value reports
func (m *StatisticalMeasurement) SelfDispose() Dispose {
	return m.selfDispose
}

// RequestedPercentiles returns the percentiles declared in the init text
func (m *StatisticalMeasurement) RequestedPercentiles() []int {
	return slices.Clone(m.percentiles)
}

func (m *StatisticalMeasurement) Minimum() float64           { return m.collect().minimum() }
func (m *StatisticalMeasurement) Median() float64            { return m.collect().median() }
func (m *StatisticalMeasurement) Average() float64           { return m.collect().average() }
func (m *StatisticalMeasurement) StandardDeviation() float64 { return m.collect().standardDeviation() }
func (m *StatisticalMeasurement) Maximum() float64           { return m.collect().maximum() }
func (m *StatisticalMeasurement) Sum() float64               { return m.collect().sum() }
func (m *StatisticalMeasurement) NbDataPoints() int          { return len(m.collect()) }

// Percentile returns the p-th percentile, p in 1..100
func (m *StatisticalMeasurement) Percentile(p int) float64 {
	return m.collect().percentile(p)
}

// DataPoints returns a copy of the collected values in ascending order
func (m *StatisticalMeasurement) DataPoints() []float64 {
	return slices.Clone(m.collect())
}

// Reduce collapses the statistics to one scalar
func (m *StatisticalMeasurement) Reduce(dispose Dispose) float64 {
	return m.collect().reduce(dispose)
}

func (m *StatisticalMeasurement) Value() float64 {
	return m.Reduce(m.selfDispose)
}

func (m *StatisticalMeasurement) IsEmpty() bool {
	return len(m.collect()) == 0
}

func (m *StatisticalMeasurement) IsInRange() bool {
	return m.inRange(m.Value())
}

func (m *StatisticalMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitStatistical(m)
}

func (m *StatisticalMeasurement) collect() dataSet {
	return m.data.load(m.isCached(), func() dataSet {
		var data dataSet
		if m.context == nil || m.monitored == "" {
			return data
		}
		for _, child := range m.context.SubMetrics() {
			data = m.visit(child, data)
		}
		data.sort()
		return data
	})
}

// visit takes one data point from a node that tracks the monitored
// measurement and only descends into nodes that do not.
func (m *StatisticalMeasurement) visit(node *Metrics, data dataSet) dataSet {
	measurement := node.Measurement(m.monitored)

	switch sub := measurement.(type) {
	case nil:
		for _, child := range node.SubMetrics() {
			data = m.visit(child, data)
		}
	case *StatisticalMeasurement:
		if m.dispose == DisposeIgnore {
			logger.WithFields(logrus.Fields{"node": node.Name(), "measurement": m.monitored}).
				Debug("ignoring statistical sub-measurement, descending")
			for _, child := range node.SubMetrics() {
				data = m.visit(child, data)
			}
			break
		}
		data = append(data, sub.Reduce(m.dispose))
	default:
		data = append(data, sub.Value())
	}
	return data
}

// dataSet is a sorted list of data points
type dataSet []float64

// sort orders ascending with NaN last
func (d dataSet) sort() {
	slices.SortFunc(d, func(a, b float64) int {
		switch {
		case math.IsNaN(a) && math.IsNaN(b):
			return 0
		case math.IsNaN(a):
			return 1
		case math.IsNaN(b):
			return -1
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
}

func (d dataSet) minimum() float64 {
	if len(d) == 0 {
		return math.NaN()
	}
	return d[0]
}

func (d dataSet) maximum() float64 {
	if len(d) == 0 {
		return math.NaN()
	}
	return d[len(d)-1]
}

func (d dataSet) median() float64 {
	n := len(d)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return d[n/2]
	}
	return (d[n/2-1] + d[n/2]) / 2
}

func (d dataSet) sum() float64 {
	if len(d) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, v := range d {
		total += v
	}
	return total
}

func (d dataSet) average() float64 {
	if len(d) == 0 {
		return math.NaN()
	}
	return d.sum() / float64(len(d))
}

// standardDeviation is the population standard deviation
func (d dataSet) standardDeviation() float64 {
	if len(d) == 0 {
		return math.NaN()
	}
	avg := d.average()
	squares := 0.0
	for _, v := range d {
		squares += (v - avg) * (v - avg)
	}
	return math.Sqrt(squares / float64(len(d)))
}

func (d dataSet) percentile(p int) float64 {
	n := len(d)
	if n == 0 {
		return math.NaN()
	}
	index := int(math.Ceil(float64(p*n) / 100))
	index = max(1, min(index, n))
	return d[index-1]
}

func (d dataSet) reduce(dispose Dispose) float64 {
	switch dispose {
	case DisposeMinimum:
		return d.minimum()
	case DisposeMedian:
		return d.median()
	case DisposeStandardDeviation:
		return d.standardDeviation()
	case DisposeMaximum:
		return d.maximum()
	case DisposeSum:
		return d.sum()
	case DisposeNbDataPoints:
		return float64(len(d))
	default:
		return d.average()
	}
}

// PercentileLabel formats a percentile column header, e.g. p90
func PercentileLabel(p int) string {
	return "p" + strconv.Itoa(p)
}
