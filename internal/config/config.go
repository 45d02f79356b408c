package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/jmetrics/internal/constants"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
)

// Default settings
const (
	// DefaultProjectName names the root of the metrics tree
	DefaultProjectName = "Project"

	// DefaultOutputFormat is used when no format is configured
	DefaultOutputFormat = "text"

	// DefaultLogLevel is the logrus level used by the CLI
	DefaultLogLevel = "warn"

	// DefaultTimeoutSeconds bounds a whole compute run
	DefaultTimeoutSeconds = 300
)

//go:embed default_measurements.yaml
var defaultMeasurementsYAML []byte

// Config represents the main configuration structure
type Config struct {
	// Project names the root of the metrics tree
	Project ProjectConfig `json:"project" mapstructure:"project" yaml:"project"`

	// Metrics declares the measurements of every level and the group definitions
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics" yaml:"metrics"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds input discovery configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Performance bounds parallel fact gathering
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Logging configures the logrus logger
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// ProjectConfig holds project identification
type ProjectConfig struct {
	Name string `json:"name" mapstructure:"name" yaml:"name"`
}

// MetricsConfig holds the declarative measurement list of each level
type MetricsConfig struct {
	Project []MeasurementConfig `json:"project" mapstructure:"project" yaml:"project"`
	Group   []MeasurementConfig `json:"group" mapstructure:"group" yaml:"group"`
	Class   []MeasurementConfig `json:"class" mapstructure:"class" yaml:"class"`
	Method  []MeasurementConfig `json:"method" mapstructure:"method" yaml:"method"`

	// Groups classify classes into cross-cutting groups by name pattern
	Groups []GroupConfig `json:"groups,omitempty" mapstructure:"groups" yaml:"groups,omitempty"`
}

// MeasurementConfig declares one measurement
type MeasurementConfig struct {
	ShortName string `json:"short_name" mapstructure:"short_name" yaml:"short_name"`
	LongName  string `json:"long_name" mapstructure:"long_name" yaml:"long_name"`

	// Type is the measurement kind, e.g. counter, statistical, nb_sub_metrics
	Type string `json:"type" mapstructure:"type" yaml:"type"`

	// Init is the kind-specific init text
	Init string `json:"init,omitempty" mapstructure:"init" yaml:"init,omitempty"`

	// Visible defaults to true when omitted
	Visible *bool `json:"visible,omitempty" mapstructure:"visible" yaml:"visible,omitempty"`

	// Cached freezes the value on first read
	Cached bool `json:"cached,omitempty" mapstructure:"cached" yaml:"cached,omitempty"`

	LowerThreshold *float64 `json:"lower_threshold,omitempty" mapstructure:"lower_threshold" yaml:"lower_threshold,omitempty"`
	UpperThreshold *float64 `json:"upper_threshold,omitempty" mapstructure:"upper_threshold" yaml:"upper_threshold,omitempty"`
}

// GroupConfig defines a named group by one or more class name patterns
type GroupConfig struct {
	Name     string   `json:"name" mapstructure:"name" yaml:"name"`
	Patterns []string `json:"patterns" mapstructure:"patterns" yaml:"patterns"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowEmpty includes nodes whose visible measurements are all empty
	ShowEmpty bool `json:"show_empty" mapstructure:"show_empty" yaml:"show_empty"`

	// ShowHidden includes measurements declared with visible: false
	ShowHidden bool `json:"show_hidden" mapstructure:"show_hidden" yaml:"show_hidden"`

	// Directory specifies the output directory for reports (empty = stdout)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`
}

// AnalysisConfig holds input discovery configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to walk directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files ignored by .gitignore at the walk root
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// PerformanceConfig bounds parallel work
type PerformanceConfig struct {
	// MaxGoroutines limits concurrent parsing (0 = number of CPUs)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole run (0 = the five minute default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	// Level is a logrus level name: panic, fatal, error, warn, info, debug, trace
	Level string `json:"level" mapstructure:"level" yaml:"level"`
}

// DefaultMetrics returns the built-in measurement set
func DefaultMetrics() MetricsConfig {
	var m MetricsConfig
	if err := yaml.Unmarshal(defaultMeasurementsYAML, &m); err != nil {
		panic(fmt.Sprintf("embedded default measurements are invalid: %v", err))
	}
	return m
}

// IsEmpty reports whether no level declares any measurement
func (m MetricsConfig) IsEmpty() bool {
	return len(m.Project) == 0 && len(m.Group) == 0 && len(m.Class) == 0 && len(m.Method) == 0
}

// Level returns the declarations of a level
func (m MetricsConfig) Level(level metrics.Level) []MeasurementConfig {
	switch level {
	case metrics.LevelProject:
		return m.Project
	case metrics.LevelGroup:
		return m.Group
	case metrics.LevelClass:
		return m.Class
	case metrics.LevelMethod:
		return m.Method
	default:
		return nil
	}
}

// defaultSettings returns every default except the measurement set, so that a
// configuration file declaring its own measurements replaces them wholesale.
func defaultSettings() *Config {
	return &Config{
		Project: ProjectConfig{Name: DefaultProjectName},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.java", "**/*.facts.yaml", "**/*.facts.yml", "**/*.facts.json"},
			ExcludePatterns: []string{
				// Build outputs
				"target",
				"build",
				"out",
				"bin",
				// Tooling
				".gradle",
				".idea",
				".git",
				"node_modules",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	config := defaultSettings()
	config.Metrics = DefaultMetrics()
	return config
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := defaultSettings()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Keep user-declared groups even when measurements come from the defaults
	if config.Metrics.IsEmpty() {
		groups := config.Metrics.Groups
		config.Metrics = DefaultMetrics()
		config.Metrics.Groups = groups
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the path being analyzed.
func findDefaultConfig(targetPath string) string {
	candidates := constants.ConfigFileNames

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Walk up to the filesystem root, handling Windows volume roots
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return fmt.Errorf("project.name cannot be empty")
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
		constants.OutputFormatCSV:  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}

	if _, err := c.MetricsConfiguration(); err != nil {
		return err
	}

	return nil
}

// Descriptor converts a declaration into a measurement descriptor
func (m MeasurementConfig) Descriptor() (*metrics.MeasurementDescriptor, error) {
	if strings.TrimSpace(m.ShortName) == "" {
		return nil, fmt.Errorf("measurement without short_name")
	}

	kind, err := metrics.ParseKind(m.Type)
	if err != nil {
		return nil, fmt.Errorf("measurement %s: %w", m.ShortName, err)
	}

	if m.LowerThreshold != nil && m.UpperThreshold != nil && *m.LowerThreshold > *m.UpperThreshold {
		return nil, fmt.Errorf("measurement %s: lower_threshold (%v) must be <= upper_threshold (%v)",
			m.ShortName, *m.LowerThreshold, *m.UpperThreshold)
	}

	longName := m.LongName
	if longName == "" {
		longName = m.ShortName
	}

	return &metrics.MeasurementDescriptor{
		ShortName:      m.ShortName,
		LongName:       longName,
		Kind:           kind,
		InitText:       m.Init,
		Visible:        m.Visible == nil || *m.Visible,
		Cached:         m.Cached,
		LowerThreshold: m.LowerThreshold,
		UpperThreshold: m.UpperThreshold,
	}, nil
}

// MetricsConfiguration builds the engine configuration, validating every
// declaration's init text and every group pattern.
func (c *Config) MetricsConfiguration() (*metrics.Configuration, error) {
	configuration := metrics.NewConfiguration()

	for _, level := range metrics.AllLevels {
		for _, mc := range c.Metrics.Level(level) {
			descriptor, err := mc.Descriptor()
			if err != nil {
				return nil, fmt.Errorf("metrics.%s: %w", level, err)
			}
			configuration.AddMeasurement(level, descriptor)
		}
	}

	for _, group := range c.Metrics.Groups {
		if group.Name == "" {
			return nil, fmt.Errorf("metrics.groups: group without name")
		}
		if len(group.Patterns) == 0 {
			return nil, fmt.Errorf("metrics.groups: group %s has no patterns", group.Name)
		}
		for _, pattern := range group.Patterns {
			if err := configuration.AddGroupDefinition(group.Name, pattern); err != nil {
				return nil, fmt.Errorf("metrics.groups: %w", err)
			}
		}
	}

	if err := configuration.Validate(); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return configuration, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("project", config.Project)
	v.Set("metrics", config.Metrics)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)
	v.Set("performance", config.Performance)
	v.Set("logging", config.Logging)

	return v.WriteConfig()
}
