package domain

// CheckResult represents the result of a threshold check
type CheckResult struct {
	Passed      bool             `json:"passed" yaml:"passed"`
	ExitCode    int              `json:"exit_code" yaml:"exit_code"`
	Violations  []CheckViolation `json:"violations" yaml:"violations"`
	Summary     CheckSummary     `json:"summary" yaml:"summary"`
	Duration    int64            `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	Version     string           `json:"version" yaml:"version"`
}

// CheckViolation represents a single measurement outside its thresholds
type CheckViolation struct {
	Level       string   `json:"level" yaml:"level"`
	Node        string   `json:"node" yaml:"node"`
	Measurement string   `json:"measurement" yaml:"measurement"`
	LongName    string   `json:"long_name,omitempty" yaml:"long_name,omitempty"`
	Value       Float    `json:"value" yaml:"value"`
	Lower       *float64 `json:"lower_threshold,omitempty" yaml:"lower_threshold,omitempty"`
	Upper       *float64 `json:"upper_threshold,omitempty" yaml:"upper_threshold,omitempty"`
	Message     string   `json:"message" yaml:"message"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	SourcesAnalyzed     int `json:"sources_analyzed" yaml:"sources_analyzed"`
	NodesChecked        int `json:"nodes_checked" yaml:"nodes_checked"`
	MeasurementsChecked int `json:"measurements_checked" yaml:"measurements_checked"`
	TotalViolations     int `json:"total_violations" yaml:"total_violations"`
}
