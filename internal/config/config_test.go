package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/jmetrics/internal/metrics"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NotNil(t, config)

	assert.Equal(t, DefaultProjectName, config.Project.Name)
	assert.Equal(t, "text", config.Output.Format)
	assert.True(t, config.Analysis.Recursive)
	assert.True(t, config.Analysis.RespectGitignore)
	assert.NotEmpty(t, config.Analysis.IncludePatterns)
	assert.Equal(t, DefaultLogLevel, config.Logging.Level)

	require.NoError(t, config.Validate())
}

func TestDefaultMetrics(t *testing.T) {
	m := DefaultMetrics()

	for _, level := range metrics.AllLevels {
		assert.NotEmpty(t, m.Level(level), "level %s", level)
	}

	configuration, err := DefaultConfig().MetricsConfiguration()
	require.NoError(t, err)

	names := func(level metrics.Level) []string {
		var out []string
		for _, d := range configuration.Measurements(level) {
			out = append(out, d.ShortName)
		}
		return out
	}
	assert.Contains(t, names(metrics.LevelMethod), metrics.Parameters)
	assert.Contains(t, names(metrics.LevelClass), "M")
	assert.Contains(t, names(metrics.LevelGroup), "NB_CLASSES")
	assert.Contains(t, names(metrics.LevelProject), "PACKAGES")

	imports := configuration.ClassMeasurements()
	for _, d := range imports {
		if d.ShortName == metrics.Imports {
			assert.False(t, d.Visible, "IMPORTS is an input list and stays hidden")
		}
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("JMETRICS_CONFIG", "")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMetrics(), config.Metrics)
}

func TestLoadConfig_File(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "custom measurements replace the defaults",
			content: `
project:
  name: demo
metrics:
  method:
    - short_name: SLOC
      type: counter
  class:
    - short_name: SLOC
      long_name: Lines
      type: statistical
      init: |
        SLOC
        DISPOSE_SUM
      upper_threshold: 500
`,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "demo", c.Project.Name)
				require.Len(t, c.Metrics.Method, 1)
				require.Len(t, c.Metrics.Class, 1)
				assert.Empty(t, c.Metrics.Group)
				assert.Empty(t, c.Metrics.Project)

				d, err := c.Metrics.Class[0].Descriptor()
				require.NoError(t, err)
				assert.Equal(t, metrics.KindStatistical, d.Kind)
				assert.True(t, d.Visible)
				require.NotNil(t, d.UpperThreshold)
				assert.Equal(t, 500.0, *d.UpperThreshold)

				method, err := c.Metrics.Method[0].Descriptor()
				require.NoError(t, err)
				assert.Equal(t, "SLOC", method.LongName)
			},
		},
		{
			name: "groups alone keep the default measurements",
			content: `
metrics:
  groups:
    - name: tests
      patterns: ["/Test$/"]
`,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultMetrics().Class, c.Metrics.Class)
				require.Len(t, c.Metrics.Groups, 1)
				assert.Equal(t, "tests", c.Metrics.Groups[0].Name)

				configuration, err := c.MetricsConfiguration()
				require.NoError(t, err)
				assert.Equal(t, []string{"tests"}, configuration.Groups("com.acme.FooTest"))
			},
		},
		{
			name: "hidden measurement",
			content: `
metrics:
  class:
    - short_name: IMPORTS
      type: name_list
      init: SET
      visible: false
`,
			check: func(t *testing.T, c *Config) {
				d, err := c.Metrics.Class[0].Descriptor()
				require.NoError(t, err)
				assert.False(t, d.Visible)
			},
		},
		{
			name: "invalid output format",
			content: `
output:
  format: html
`,
			wantErr: "invalid output.format",
		},
		{
			name: "unknown measurement type",
			content: `
metrics:
  class:
    - short_name: X
      type: gauge
`,
			wantErr: "unknown measurement kind",
		},
		{
			name: "malformed selection criteria",
			content: `
metrics:
  class:
    - short_name: BIG
      type: nb_sub_metrics
      init: SLOC >
`,
			wantErr: "invalid selection criteria",
		},
		{
			name: "inverted thresholds",
			content: `
metrics:
  method:
    - short_name: SLOC
      type: counter
      lower_threshold: 10
      upper_threshold: 5
`,
			wantErr: "lower_threshold",
		},
		{
			name: "duplicate short name",
			content: `
metrics:
  method:
    - short_name: SLOC
      type: counter
    - short_name: SLOC
      type: counter
`,
			wantErr: "SLOC",
		},
		{
			name: "invalid group pattern",
			content: `
metrics:
  groups:
    - name: broken
      patterns: ["/(unclosed/"]
`,
			wantErr: "invalid pattern",
		},
		{
			name: "invalid log level",
			content: `
logging:
  level: loud
`,
			wantErr: "invalid logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), ".jmetrics.yaml", tt.content)

			config, err := LoadConfig(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestFindDefaultConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "main", "java")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	expected := writeConfig(t, root, ".jmetrics.yaml", "project:\n  name: walked\n")

	assert.Equal(t, expected, findDefaultConfig(nested))

	config, err := LoadConfigWithTarget("", nested)
	require.NoError(t, err)
	assert.Equal(t, "walked", config.Project.Name)
}

func TestFindDefaultConfig_FileTarget(t *testing.T) {
	root := t.TempDir()
	expected := writeConfig(t, root, "jmetrics.yml", "project:\n  name: x\n")
	source := writeConfig(t, root, "Foo.java", "class Foo {}")

	assert.Equal(t, expected, findDefaultConfig(source))
}

func TestSaveConfig(t *testing.T) {
	config := DefaultConfig()
	config.Project.Name = "saved"
	config.Output.Format = "csv"

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, SaveConfig(config, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", loaded.Project.Name)
	assert.Equal(t, "csv", loaded.Output.Format)
	assert.Len(t, loaded.Metrics.Class, len(config.Metrics.Class))
}

func TestMeasurementConfig_Descriptor(t *testing.T) {
	hidden := false

	tests := []struct {
		name    string
		input   MeasurementConfig
		want    metrics.Kind
		visible bool
		wantErr bool
	}{
		{name: "camel case type", input: MeasurementConfig{ShortName: "N", Type: "NbSubMetrics"}, want: metrics.KindNbSubMetrics, visible: true},
		{name: "suffixed type", input: MeasurementConfig{ShortName: "S", Type: "StatisticalMeasurement", Init: "SLOC"}, want: metrics.KindStatistical, visible: true},
		{name: "hidden", input: MeasurementConfig{ShortName: "H", Type: "counter", Visible: &hidden}, want: metrics.KindCounter},
		{name: "missing short name", input: MeasurementConfig{Type: "counter"}, wantErr: true},
		{name: "unknown type", input: MeasurementConfig{ShortName: "U", Type: "gauge"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.input.Descriptor()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Kind)
			assert.Equal(t, tt.visible, d.Visible)
		})
	}
}
