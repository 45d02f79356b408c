package domain

import "io"

// ComputeRequest represents a request to compute metrics over Java sources and fact files
type ComputeRequest struct {
	// Input files or directories
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string

	// Configuration
	ConfigPath  string
	ProjectName string

	// Report options
	ShowEmpty  bool
	ShowHidden bool

	// Analysis options; nil Recursive keeps the configured value
	Recursive       *bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress bars on stderr
	ShowProgress bool
}

// ComputeResponse is the outcome of a compute run
type ComputeResponse struct {
	Report   *MetricsReport
	Sources  []string
	Warnings []string
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}
