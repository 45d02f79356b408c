package gatherer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/config"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
)

func declare(t *testing.T, configuration *metrics.Configuration, level metrics.Level, name string, kind metrics.Kind, init string) {
	t.Helper()
	configuration.AddMeasurement(level, &metrics.MeasurementDescriptor{
		ShortName: name,
		LongName:  name,
		Kind:      kind,
		InitText:  init,
		Visible:   true,
	})
}

func newTestFactory(t *testing.T) *metrics.Factory {
	t.Helper()
	configuration := metrics.NewConfiguration()
	declare(t, configuration, metrics.LevelProject, "SLOC", metrics.KindStatistical, "SLOC DISPOSE_SUM\nDISPOSE_SUM")
	declare(t, configuration, metrics.LevelProject, "BUILDS", metrics.KindCounter, "")
	declare(t, configuration, metrics.LevelGroup, "NB", metrics.KindNbSubMetrics, "")
	declare(t, configuration, metrics.LevelClass, "M", metrics.KindNbSubMetrics, "")
	declare(t, configuration, metrics.LevelClass, "SLOC", metrics.KindStatistical, "SLOC\nDISPOSE_SUM")
	declare(t, configuration, metrics.LevelClass, "OUTBOUND", metrics.KindNameList, "SET")
	declare(t, configuration, metrics.LevelMethod, "SLOC", metrics.KindCounter, "")
	declare(t, configuration, metrics.LevelMethod, "PARAMETERS", metrics.KindCounter, "")
	require.NoError(t, configuration.AddGroupDefinition("services", "/Service$/"))

	factory, err := metrics.NewFactory("demo", configuration)
	require.NoError(t, err)
	return factory
}

func TestApply(t *testing.T) {
	factory := newTestFactory(t)

	facts := &domain.Facts{
		ProjectMeasurements: map[string]float64{"BUILDS": 2, "UNDECLARED": 9},
		Classes: []domain.ClassFacts{
			{
				Name:  "com.acme.Foo",
				Names: map[string][]string{"OUTBOUND": {"x", "y", "x"}},
				Methods: []domain.MethodFacts{
					{Name: "com.acme.Foo.bar(int): void", Measurements: map[string]float64{"SLOC": 12, "PARAMETERS": 1}},
					{Name: "baz(): void", Measurements: map[string]float64{"SLOC": 3}},
				},
			},
			{
				Name:    "com.acme.BarService",
				Methods: []domain.MethodFacts{{Name: "com.acme.BarService.qux(): void", Measurements: map[string]float64{"SLOC": 5}}},
			},
			{
				Name:    "other.Baz",
				Methods: []domain.MethodFacts{{Name: "other.Baz.z(): void", Measurements: map[string]float64{"SLOC": 2}}},
			},
		},
	}
	require.NoError(t, Apply(factory, facts))

	assert.Equal(t, []string{"com.acme", "other", "services"}, factory.Names(metrics.LevelGroup))
	assert.Equal(t, []string{"com.acme.BarService", "com.acme.Foo", "other.Baz"}, factory.Names(metrics.LevelClass))
	assert.Len(t, factory.Names(metrics.LevelMethod), 4)
	assert.Contains(t, factory.Names(metrics.LevelMethod), "com.acme.Foo.baz(): void")

	foo := factory.CreateClassMetrics("com.acme.Foo")
	assert.Equal(t, 2.0, foo.Measurement("M").Value())
	assert.Equal(t, 15.0, foo.Measurement("SLOC").Value())
	assert.Equal(t, []string{"x", "y"}, foo.Measurement("OUTBOUND").(metrics.CollectionMeasurement).Values())

	acme := factory.CreateGroupMetrics("com.acme")
	assert.Equal(t, 2.0, acme.Measurement("NB").Value())
	assert.Equal(t, 1.0, factory.CreateGroupMetrics("services").Measurement("NB").Value())

	project := factory.CreateProjectMetrics()
	assert.Equal(t, 2.0, project.Measurement("BUILDS").Value())
	assert.False(t, project.HasMeasurement("UNDECLARED"))
	// BarService is reached through both its package and the services group
	assert.Equal(t, 27.0, project.Measurement("SLOC").Value())
}

func TestApply_Idempotent(t *testing.T) {
	factory := newTestFactory(t)
	facts := &domain.Facts{Classes: []domain.ClassFacts{{
		Name:    "a.A",
		Methods: []domain.MethodFacts{{Name: "a.A.m(): void", Measurements: map[string]float64{"SLOC": 4}}},
	}}}

	require.NoError(t, Apply(factory, facts))
	require.NoError(t, Apply(factory, facts))

	class := factory.CreateClassMetrics("a.A")
	assert.Equal(t, 1.0, class.Measurement("M").Value(), "nodes are created once per name")
	assert.Equal(t, 8.0, class.Measurement("SLOC").Value(), "contributions accumulate")
}

func TestApply_Nil(t *testing.T) {
	assert.NoError(t, Apply(newTestFactory(t), nil))
}

func TestQualifyMethod(t *testing.T) {
	tests := []struct {
		class, method, want string
	}{
		{"a.B", "a.B.m(int): void", "a.B.m(int): void"},
		{"a.B", "m(int): void", "a.B.m(int): void"},
		{"a.B", "a.B.static {}", "a.B.static {}"},
		{"a.B", "static {}", "a.B.static {}"},
		{"a.B$C", "a.B$C.m(): void", "a.B$C.m(): void"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, qualifyMethod(tt.class, tt.method), tt.method)
	}
}

func TestGatherAndApply_DefaultMeasurements(t *testing.T) {
	cfg := config.DefaultConfig()
	configuration, err := cfg.MetricsConfiguration()
	require.NoError(t, err)

	factory, err := metrics.NewFactory("shop", configuration)
	require.NoError(t, err)

	require.NoError(t, Apply(factory, gatherCart(t)))

	cart := factory.CreateClassMetrics("com.acme.shop.Cart")
	assert.Equal(t, 5.0, cart.Measurement("M").Value())
	assert.Equal(t, 5.0, cart.Measurement(metrics.Attributes).Value())
	assert.Equal(t, 4.0, cart.Measurement(metrics.ClassNameCharacterCount).Value())
	assert.Equal(t, []string{"java.io", "java.util"},
		cart.Measurement("IMPORTED_PACKAGES").(metrics.CollectionMeasurement).Values())

	group := factory.CreateGroupMetrics("com.acme.shop")
	assert.Equal(t, 6.0, group.Measurement("NB_CLASSES").Value())
	assert.Equal(t, 2.0, group.Measurement(metrics.PublicClasses).Value())

	assert.Equal(t, 30.0, group.Measurement(metrics.Sloc).Value())

	project := factory.CreateProjectMetrics()
	assert.Equal(t, 30.0, project.Measurement(metrics.Sloc).Value())
	assert.Equal(t, 1.0, project.Measurement(metrics.Packages).Value())
	assert.Equal(t, []string{"com.acme.shop.Cart", "com.acme.shop.Cart$Listener"},
		project.Measurement(metrics.PublicClasses).(metrics.CollectionMeasurement).Values())
	assert.Equal(t, 6.0, project.Measurement("CLASSES").Value())
	assert.Equal(t, []string{"com.acme.shop"},
		project.Measurement("PUBLIC_PACKAGES").(metrics.CollectionMeasurement).Values())
}
