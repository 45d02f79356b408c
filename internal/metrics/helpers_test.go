package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newDescriptor(name string, kind Kind, initText string) *MeasurementDescriptor {
	return &MeasurementDescriptor{
		ShortName: name,
		LongName:  name,
		Kind:      kind,
		InitText:  initText,
		Visible:   true,
	}
}

// track creates a measurement of the given kind on a node and returns it
func track(t *testing.T, node *Metrics, kind Kind, name, initText string) Measurement {
	t.Helper()
	m, err := newDescriptor(name, kind, initText).Create(node)
	require.NoError(t, err)
	node.Track(m)
	return m
}

// child creates a node attached under parent
func child(t *testing.T, parent *Metrics, name string) *Metrics {
	t.Helper()
	node := NewChildMetrics(parent, name)
	require.NoError(t, parent.AddSubMetrics(node))
	return node
}

// counterChild creates a child holding one counter with the given value
func counterChild(t *testing.T, parent *Metrics, name, measurement string, value float64) *Metrics {
	t.Helper()
	node := child(t, parent, name)
	track(t, node, KindCounter, measurement, "")
	node.AddToMeasurement(measurement, value)
	return node
}
