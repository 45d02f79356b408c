package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
)

type declaration struct {
	level  metrics.Level
	name   string
	kind   metrics.Kind
	init   string
	hidden bool
	upper  *float64
}

// shopFactory builds a small tree:
//
//	demo
//	  com.acme
//	    com.acme.Cart   add() SLOC 3, checkout() SLOC 12
//	    com.acme.Empty  no methods
//	    com.acme.Item   get() SLOC 3
//
// Cart has too many methods and checkout() too many lines.
func shopFactory(t *testing.T) *metrics.Factory {
	t.Helper()

	configuration := metrics.NewConfiguration()
	for _, d := range []declaration{
		{level: metrics.LevelProject, name: "SLOC", kind: metrics.KindStatistical, init: "SLOC\nDISPOSE_SUM"},
		{level: metrics.LevelProject, name: "PUBLIC_CLASSES", kind: metrics.KindNameList, init: "SET"},
		{level: metrics.LevelProject, name: "BUILDS", kind: metrics.KindCounter, hidden: true},
		{level: metrics.LevelGroup, name: "NB_CLASSES", kind: metrics.KindNbSubMetrics},
		{level: metrics.LevelClass, name: "M", kind: metrics.KindNbSubMetrics, upper: metrics.Threshold(1)},
		{level: metrics.LevelClass, name: "SLOC", kind: metrics.KindStatistical, init: "SLOC\nDISPOSE_SUM\nP 50"},
		{level: metrics.LevelClass, name: "SLOC_HISTOGRAM", kind: metrics.KindHistogram, init: "SLOC"},
		{level: metrics.LevelMethod, name: "SLOC", kind: metrics.KindCounter, upper: metrics.Threshold(10)},
	} {
		configuration.AddMeasurement(d.level, &metrics.MeasurementDescriptor{
			ShortName:      d.name,
			LongName:       d.name + " long",
			Kind:           d.kind,
			InitText:       d.init,
			Visible:        !d.hidden,
			UpperThreshold: d.upper,
		})
	}

	factory, err := metrics.NewFactory("demo", configuration)
	require.NoError(t, err)

	for _, m := range []struct {
		name string
		sloc int
	}{
		{"com.acme.Cart.add(): void", 3},
		{"com.acme.Cart.checkout(): void", 12},
		{"com.acme.Item.get(): int", 3},
	} {
		method := factory.CreateMethodMetrics(m.name)
		method.AddToMeasurement("SLOC", m.sloc)
		require.NoError(t, factory.IncludeMethodMetrics(method))
	}
	require.NoError(t, factory.IncludeClassMetrics(factory.CreateClassMetrics("com.acme.Empty")))

	project := factory.CreateProjectMetrics()
	project.AddToMeasurement("PUBLIC_CLASSES", "com.acme.Cart")
	project.AddToMeasurement("BUILDS", 1)
	return factory
}

func childNamed(t *testing.T, n *domain.NodeReport, name string) *domain.NodeReport {
	t.Helper()
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	require.Failf(t, "missing child", "%s has no child %s", n.Name, name)
	return nil
}
