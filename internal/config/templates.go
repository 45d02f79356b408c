package config

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the build layout of a Java project
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeMaven   ProjectType = "maven"
	ProjectTypeGradle  ProjectType = "gradle"
)

// AllProjectTypes lists the project types offered by `init`
var AllProjectTypes = []ProjectType{ProjectTypeGeneric, ProjectTypeMaven, ProjectTypeGradle}

// Strictness represents how tight the default thresholds are
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// AllStrictness lists the strictness levels offered by `init`
var AllStrictness = []Strictness{StrictnessRelaxed, StrictnessStandard, StrictnessStrict}

// ProjectPreset holds input discovery presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds upper thresholds applied to the default measurements
type StrictnessPreset struct {
	MaxMethodsPerClass  float64
	MaxMethodSLOC       float64
	MaxComplexity       float64
	MaxParameters       float64
	MaxLocalVariables   float64
	MaxAttributes       float64
	MaxPublicClassRatio float64
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{"**/*.java"},
			ExcludePatterns: []string{"build", "out", "target", ".git"},
		},
		ProjectTypeMaven: {
			IncludePatterns: []string{"src/main/java/**/*.java"},
			ExcludePatterns: []string{"target", "src/test", ".mvn"},
		},
		ProjectTypeGradle: {
			IncludePatterns: []string{"**/src/main/java/**/*.java"},
			ExcludePatterns: []string{"build", ".gradle", "**/src/test/**"},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxMethodsPerClass:  50,
			MaxMethodSLOC:       100,
			MaxComplexity:       20,
			MaxParameters:       8,
			MaxLocalVariables:   20,
			MaxAttributes:       30,
			MaxPublicClassRatio: 1,
		},
		StrictnessStandard: {
			MaxMethodsPerClass:  30,
			MaxMethodSLOC:       50,
			MaxComplexity:       10,
			MaxParameters:       5,
			MaxLocalVariables:   10,
			MaxAttributes:       15,
			MaxPublicClassRatio: 1,
		},
		StrictnessStrict: {
			MaxMethodsPerClass:  20,
			MaxMethodSLOC:       30,
			MaxComplexity:       7,
			MaxParameters:       4,
			MaxLocalVariables:   8,
			MaxAttributes:       10,
			MaxPublicClassRatio: 0.8,
		},
	}
}

// ApplyStrictness sets the preset's upper thresholds on the matching default measurements
func (m *MetricsConfig) ApplyStrictness(strictness Strictness) {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		return
	}

	limits := map[string]map[string]float64{
		"project": {"PUBLIC_CLASS_RATIO": preset.MaxPublicClassRatio},
		"class": {
			"M":          preset.MaxMethodsPerClass,
			"ATTRIBUTES": preset.MaxAttributes,
		},
		"method": {
			"SLOC":            preset.MaxMethodSLOC,
			"VG":              preset.MaxComplexity,
			"PARAMETERS":      preset.MaxParameters,
			"LOCAL_VARIABLES": preset.MaxLocalVariables,
		},
	}

	apply := func(list []MeasurementConfig, level string) {
		for i := range list {
			if limit, ok := limits[level][list[i].ShortName]; ok {
				list[i].UpperThreshold = &limit
			}
		}
	}
	apply(m.Project, "project")
	apply(m.Class, "class")
	apply(m.Method, "method")
}

// GetFullConfigTemplate returns the documented config template as YAML,
// declaring the default measurement set with the strictness thresholds applied.
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) (string, error) {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		return "", fmt.Errorf("unknown project type %q", projectType)
	}
	if _, ok := GetStrictnessPresets()[strictness]; !ok {
		return "", fmt.Errorf("unknown strictness %q", strictness)
	}

	measurements := DefaultMetrics()
	measurements.ApplyStrictness(strictness)

	metricsYAML, err := marshalSection("metrics", measurements)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`# jmetrics configuration
# Documentation: https://github.com/ludo-technologies/jmetrics

# ============================================================================
# PROJECT
# ============================================================================
project:
  # Name of the root node of the report
  name: ` + DefaultProjectName + `

# ============================================================================
# OUTPUT SETTINGS
# ============================================================================
output:
  # Output format: text, json, yaml, csv
  format: text

  # Report nodes whose visible measurements are all empty
  show_empty: false

  # Report measurements declared with visible: false
  show_hidden: false

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  # File patterns to include (doublestar glob patterns)
  include_patterns:
`)
	writeYAMLList(&b, preset.IncludePatterns)
	b.WriteString(`
  # Directory names or glob patterns to exclude
  exclude_patterns:
`)
	writeYAMLList(&b, preset.ExcludePatterns)
	b.WriteString(`
  recursive: true
  respect_gitignore: true

# ============================================================================
# PERFORMANCE
# ============================================================================
performance:
  # Number of parallel parsers (0 = number of CPUs)
  max_goroutines: 0

  # Timeout for the whole run in seconds (0 = five minutes)
  timeout_seconds: 300

logging:
  # panic, fatal, error, warn, info, debug, trace
  level: warn

# ============================================================================
# MEASUREMENTS
# ============================================================================
# Each level lists its measurements in report order. Types: counter,
# single_value, name_list, statistical, ratio, sum, nb_sub_metrics,
# context_accumulator, sub_metrics_accumulator, histogram.
# Strictness: ` + string(strictness) + `
`)
	b.WriteString(metricsYAML)
	return b.String(), nil
}

// GetMinimalConfigTemplate returns a minimal config template.
// It declares no measurements, so the built-in set applies.
func GetMinimalConfigTemplate() string {
	return `# jmetrics configuration (minimal)
# See all options: jmetrics init --force

project:
  name: ` + DefaultProjectName + `

output:
  format: text

analysis:
  include_patterns:
    - "**/*.java"
  exclude_patterns:
    - build
    - target
`
}

func writeYAMLList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "    - %q\n", item)
	}
}

func marshalSection(key string, value any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{key: value}); err != nil {
		return "", fmt.Errorf("failed to encode %s section: %w", key, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode %s section: %w", key, err)
	}
	return buf.String(), nil
}
