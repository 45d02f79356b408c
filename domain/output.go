package domain

import "strings"

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat converts a format name, case-insensitively
func ParseOutputFormat(text string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(text))); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return f, nil
	default:
		return "", NewUnsupportedFormatError(text)
	}
}

// Extension returns the file extension used when a report is written to a directory
func (f OutputFormat) Extension() string {
	if f == OutputFormatText {
		return "txt"
	}
	return string(f)
}
