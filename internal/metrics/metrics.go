package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Metrics is a node of the project / group / class / method tree. It owns
// its measurements by short name and an ordered set of sub-metrics.
//
// The parent is the owning node. It is fixed at construction, or by the first
// AddSubMetrics call for a node created without one. A node may additionally
// be listed as sub-metrics of other nodes (cross-cutting groups) without
// changing its parent.
type Metrics struct {
	name         string
	parent       *Metrics
	measurements map[string]Measurement
	children     []*Metrics
	childSet     map[*Metrics]struct{}
}

// NewMetrics creates a top-level node
func NewMetrics(name string) *Metrics {
	return NewChildMetrics(nil, name)
}

// NewChildMetrics creates a node whose parent is already known. The node is
// not added to the parent's sub-metrics until AddSubMetrics is called.
func NewChildMetrics(parent *Metrics, name string) *Metrics {
	m := &Metrics{
		name:         name,
		parent:       parent,
		measurements: make(map[string]Measurement),
		childSet:     make(map[*Metrics]struct{}),
	}

	entry := logger.WithField("name", name)
	if parent != nil {
		entry = entry.WithField("parent", parent.name)
	}
	entry.Debug("created metrics")
	return m
}

func (m *Metrics) Name() string {
	return m.name
}

// Parent returns the owning node, nil for a root
func (m *Metrics) Parent() *Metrics {
	return m.parent
}

// Track registers a measurement under its short name, replacing any previous one
func (m *Metrics) Track(measurement Measurement) {
	m.TrackAs(measurement.ShortName(), measurement)
}

// TrackAs registers a measurement under an explicit name
func (m *Metrics) TrackAs(name string, measurement Measurement) {
	m.measurements[name] = measurement
}

// AddToMeasurement contributes a raw value to the named measurement.
// Contributions to an absent measurement are dropped.
func (m *Metrics) AddToMeasurement(name string, value any) {
	measurement, ok := m.measurements[name]
	if !ok {
		logger.WithFields(logrus.Fields{"node": m.name, "measurement": name}).Debug("no such measurement")
		return
	}
	measurement.Add(value)
}

// Measurement returns the named measurement, or nil when absent
func (m *Metrics) Measurement(name string) Measurement {
	return m.measurements[name]
}

func (m *Metrics) HasMeasurement(name string) bool {
	_, ok := m.measurements[name]
	return ok
}

// MeasurementNames returns the tracked short names in sorted order
func (m *Metrics) MeasurementNames() []string {
	names := make([]string, 0, len(m.measurements))
	for name := range m.measurements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddSubMetrics attaches a child. Adding the same node twice is a no-op.
// It fails with ErrCycle when the child is this node or already reaches it.
func (m *Metrics) AddSubMetrics(child *Metrics) error {
	if child == nil {
		return nil
	}
	if _, ok := m.childSet[child]; ok {
		return nil
	}
	if child.reaches(m) {
		return fmt.Errorf("%w: %q under %q", ErrCycle, child.name, m.name)
	}

	if child.parent == nil {
		child.parent = m
	}
	m.childSet[child] = struct{}{}
	m.children = append(m.children, child)
	return nil
}

// reaches reports whether target is this node or one of its descendants
func (m *Metrics) reaches(target *Metrics) bool {
	if m == target {
		return true
	}
	for _, child := range m.children {
		if child.reaches(target) {
			return true
		}
	}
	return false
}

// SubMetrics returns the direct children in insertion order
func (m *Metrics) SubMetrics() []*Metrics {
	out := make([]*Metrics, len(m.children))
	copy(out, m.children)
	return out
}

// Descendants returns every node below this one, depth first, each once
func (m *Metrics) Descendants() []*Metrics {
	var out []*Metrics
	seen := make(map[*Metrics]struct{})

	var walk func(node *Metrics)
	walk = func(node *Metrics) {
		for _, child := range node.children {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			out = append(out, child)
			walk(child)
		}
	}
	walk(m)
	return out
}

func isVisible(measurement Measurement) bool {
	d := measurement.Descriptor()
	return d == nil || d.Visible
}

// IsEmpty is true when every visible measurement and every sub-metrics is empty
func (m *Metrics) IsEmpty() bool {
	for _, measurement := range m.measurements {
		if isVisible(measurement) && !measurement.IsEmpty() {
			return false
		}
	}
	for _, child := range m.children {
		if !child.IsEmpty() {
			return false
		}
	}
	return true
}

// IsInRange is true when every visible measurement is within its thresholds
func (m *Metrics) IsInRange() bool {
	for _, measurement := range m.measurements {
		if isVisible(measurement) && !measurement.IsInRange() {
			return false
		}
	}
	return true
}

func (m *Metrics) String() string {
	var sb strings.Builder
	sb.WriteString(m.name)
	sb.WriteString(" with [")
	for i, name := range m.MeasurementNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q(%s)", name, KindOf(m.measurements[name]))
	}
	sb.WriteString("]")
	return sb.String()
}
