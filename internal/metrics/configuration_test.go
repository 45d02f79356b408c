package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationMeasurementsKeepOrder(t *testing.T) {
	c := NewConfiguration()
	c.AddMeasurement(LevelClass, newDescriptor("B", KindCounter, ""))
	c.AddMeasurement(LevelClass, newDescriptor("A", KindCounter, ""))

	names := []string{}
	for _, d := range c.ClassMeasurements() {
		names = append(names, d.ShortName)
	}
	assert.Equal(t, []string{"B", "A"}, names)
	assert.Empty(t, c.MethodMeasurements())
}

func TestConfigurationGroups(t *testing.T) {
	c := NewConfiguration()
	require.NoError(t, c.AddGroupDefinition("web", "/\\.web\\./"))
	require.NoError(t, c.AddGroupDefinition("web", "/Controller$/"))
	require.NoError(t, c.AddGroupDefinition("tests", "/Test$/"))

	assert.Equal(t, []string{"web"}, c.Groups("com.acme.web.Index"))
	assert.Equal(t, []string{"web", "tests"}, c.Groups("com.acme.web.UserTest"))
	assert.Equal(t, []string{"web"}, c.Groups("com.acme.UserController"))
	assert.Empty(t, c.Groups("com.acme.Model"))
	assert.Len(t, c.GroupDefinitions()["web"], 2)

	assert.ErrorIs(t, c.AddGroupDefinition("bad", "/(/"), ErrInvalidPattern)
}

func TestConfigurationValidateRejectsDuplicates(t *testing.T) {
	c := NewConfiguration()
	c.AddMeasurement(LevelMethod, newDescriptor("A", KindCounter, ""))
	c.AddMeasurement(LevelMethod, newDescriptor("A", KindSum, ""))
	assert.Error(t, c.Validate())
}

func TestParseLevel(t *testing.T) {
	for _, level := range AllLevels {
		parsed, err := ParseLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	_, err := ParseLevel("module")
	assert.Error(t, err)
}
