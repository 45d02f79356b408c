package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float is a measurement value. JSON and YAML have no portable NaN or
// infinity, so non-finite values are written as the strings "NaN",
// "Infinity" and "-Infinity".
type Float float64

// IsNaN reports whether the value is NaN
func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}

// String formats the value with the shortest exact representation
func (f Float) String() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(f.String())
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Float) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := parseNonFinite(s)
		if err != nil {
			return err
		}
		*f = Float(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (f Float) MarshalYAML() (any, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.String(), nil
	}
	return v, nil
}

func parseNonFinite(s string) (float64, error) {
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	default:
		return strconv.ParseFloat(s, 64)
	}
}

// Level names used in reports
const (
	LevelProject = "project"
	LevelGroup   = "group"
	LevelClass   = "class"
	LevelMethod  = "method"
)

// ReportOptions controls what BuildReport includes
type ReportOptions struct {
	// ShowEmpty includes nodes whose visible measurements are all empty
	ShowEmpty bool

	// ShowHidden includes measurements declared invisible
	ShowHidden bool
}

// MetricsReport is a read-only snapshot of a metrics tree
type MetricsReport struct {
	Project     string        `json:"project" yaml:"project"`
	Version     string        `json:"version" yaml:"version"`
	GeneratedAt string        `json:"generated_at" yaml:"generated_at"`
	Root        *NodeReport   `json:"root" yaml:"root"`
	Columns     LevelColumns  `json:"columns" yaml:"columns"`
	Summary     ReportSummary `json:"summary" yaml:"summary"`
}

// LevelColumns lists, per level, the reported measurements in declaration order
type LevelColumns struct {
	Project []ColumnReport `json:"project" yaml:"project"`
	Group   []ColumnReport `json:"group" yaml:"group"`
	Class   []ColumnReport `json:"class" yaml:"class"`
	Method  []ColumnReport `json:"method" yaml:"method"`
}

// Level returns the columns of a level name
func (c LevelColumns) Level(level string) []ColumnReport {
	switch level {
	case LevelProject:
		return c.Project
	case LevelGroup:
		return c.Group
	case LevelClass:
		return c.Class
	case LevelMethod:
		return c.Method
	default:
		return nil
	}
}

// Find returns the column of a measurement at a level
func (c LevelColumns) Find(level, shortName string) *ColumnReport {
	columns := c.Level(level)
	for i := range columns {
		if columns[i].ShortName == shortName {
			return &columns[i]
		}
	}
	return nil
}

// ColumnReport describes one declared measurement
type ColumnReport struct {
	ShortName   string   `json:"short_name" yaml:"short_name"`
	LongName    string   `json:"long_name" yaml:"long_name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Percentiles []int    `json:"percentiles,omitempty" yaml:"percentiles,omitempty"`
	Lower       *float64 `json:"lower_threshold,omitempty" yaml:"lower_threshold,omitempty"`
	Upper       *float64 `json:"upper_threshold,omitempty" yaml:"upper_threshold,omitempty"`
}

// ReportSummary counts the reported nodes
type ReportSummary struct {
	Groups     int `json:"groups" yaml:"groups"`
	Classes    int `json:"classes" yaml:"classes"`
	Methods    int `json:"methods" yaml:"methods"`
	OutOfRange int `json:"out_of_range" yaml:"out_of_range"`
}

// NodeReport is one node of the metrics tree with its included children
type NodeReport struct {
	Name         string              `json:"name" yaml:"name"`
	Level        string              `json:"level" yaml:"level"`
	Measurements []MeasurementReport `json:"measurements" yaml:"measurements"`
	Children     []*NodeReport       `json:"children,omitempty" yaml:"children,omitempty"`
}

// Measurement returns the reported measurement with the given short name
func (n *NodeReport) Measurement(shortName string) *MeasurementReport {
	for i := range n.Measurements {
		if n.Measurements[i].ShortName == shortName {
			return &n.Measurements[i]
		}
	}
	return nil
}

// Walk visits the node and its descendants depth-first, parents first
func (n *NodeReport) Walk(visit func(*NodeReport)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// MeasurementReport is the snapshot of one measurement
type MeasurementReport struct {
	ShortName  string            `json:"short_name" yaml:"short_name"`
	LongName   string            `json:"long_name" yaml:"long_name"`
	Kind       string            `json:"kind" yaml:"kind"`
	Value      Float             `json:"value" yaml:"value"`
	Empty      bool              `json:"empty" yaml:"empty"`
	InRange    bool              `json:"in_range" yaml:"in_range"`
	Statistics *StatisticsReport `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Values     []string          `json:"values,omitempty" yaml:"values,omitempty"`
	Histogram  []HistogramBucket `json:"histogram,omitempty" yaml:"histogram,omitempty"`
	Plot       string            `json:"plot,omitempty" yaml:"plot,omitempty"`
}

// StatisticsReport holds the summary statistics of a statistical measurement
type StatisticsReport struct {
	Minimum           Float            `json:"minimum" yaml:"minimum"`
	Median            Float            `json:"median" yaml:"median"`
	Average           Float            `json:"average" yaml:"average"`
	StandardDeviation Float            `json:"standard_deviation" yaml:"standard_deviation"`
	Maximum           Float            `json:"maximum" yaml:"maximum"`
	Sum               Float            `json:"sum" yaml:"sum"`
	NbDataPoints      int              `json:"nb_data_points" yaml:"nb_data_points"`
	Percentiles       map[string]Float `json:"percentiles,omitempty" yaml:"percentiles,omitempty"`
}

// HistogramBucket is the count of data points rounding to Key
type HistogramBucket struct {
	Key   Float `json:"key" yaml:"key"`
	Count int   `json:"count" yaml:"count"`
}
