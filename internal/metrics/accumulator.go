package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
)

var accumulatorLine = regexp.MustCompile(`^\s*(\S+)\s*(.*)`)

// filter is one accumulator line: a measurement name and an optional pattern
type filter struct {
	name    string
	pattern *regexp.Regexp
}

// apply adds the accepted values of a collection measurement to the set.
// When the pattern has a capture group, the first group replaces the value.
func (f filter) apply(values []string, into map[string]struct{}) {
	for _, v := range values {
		if f.pattern == nil {
			into[v] = struct{}{}
			continue
		}
		match := f.pattern.FindStringSubmatchIndex(v)
		if match == nil {
			continue
		}
		if len(match) >= 4 && match[2] >= 0 {
			into[v[match[2]:match[3]]] = struct{}{}
		} else {
			into[v] = struct{}{}
		}
	}
}

func parseFilters(initText string) ([]filter, error) {
	var filters []filter
	for _, line := range initLines(initText) {
		match := accumulatorLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		f := filter{name: match[1]}
		if match[2] != "" {
			re, err := CompilePattern(match[2])
			if err != nil {
				return nil, fmt.Errorf("filter on %s: %w", f.name, err)
			}
			f.pattern = re
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// accumulator gathers a sorted set of distinct strings from collection
// measurements of the nodes returned by sources.
type accumulator struct {
	measurementBase
	filters []filter
	values  memo[[]string]
	sources func() []*Metrics
}

func (a *accumulator) collect() []string {
	return a.values.load(a.isCached(), func() []string {
		set := make(map[string]struct{})
		for _, node := range a.sources() {
			for _, f := range a.filters {
				if cm, ok := node.Measurement(f.name).(CollectionMeasurement); ok {
					f.apply(cm.Values(), set)
				}
			}
		}

		values := make([]string, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		sort.Strings(values)
		return values
	})
}

// Values returns the accumulated values in ascending order
func (a *accumulator) Values() []string {
	return slices.Clone(a.collect())
}

func (a *accumulator) Value() float64 {
	return float64(len(a.collect()))
}

func (a *accumulator) IsEmpty() bool {
	return len(a.collect()) == 0
}

func (a *accumulator) IsInRange() bool {
	return a.inRange(a.Value())
}

// ContextAccumulatorMeasurement accumulates values held by collection
// measurements of its own context node.
type ContextAccumulatorMeasurement struct {
	accumulator
}

func NewContextAccumulatorMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) (*ContextAccumulatorMeasurement, error) {
	filters, err := parseFilters(initText)
	if err != nil {
		return nil, err
	}

	m := &ContextAccumulatorMeasurement{accumulator{
		measurementBase: newMeasurementBase(descriptor, context),
		filters:         filters,
	}}
	m.sources = func() []*Metrics {
		if m.context == nil {
			return nil
		}
		return []*Metrics{m.context}
	}
	return m, nil
}

func (m *ContextAccumulatorMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitContextAccumulator(m)
}

// SubMetricsAccumulatorMeasurement accumulates values held by collection
// measurements anywhere below its context node.
type SubMetricsAccumulatorMeasurement struct {
	accumulator
}

func NewSubMetricsAccumulatorMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) (*SubMetricsAccumulatorMeasurement, error) {
	filters, err := parseFilters(initText)
	if err != nil {
		return nil, err
	}

	m := &SubMetricsAccumulatorMeasurement{accumulator{
		measurementBase: newMeasurementBase(descriptor, context),
		filters:         filters,
	}}
	m.sources = func() []*Metrics {
		if m.context == nil {
			return nil
		}
		return m.context.Descendants()
	}
	return m, nil
}

func (m *SubMetricsAccumulatorMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitSubMetricsAccumulator(m)
}
