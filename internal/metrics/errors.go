package metrics

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when attaching a node would break the tree shape
	ErrCycle = errors.New("metrics: attachment would create a cycle")

	// ErrInvalidCriteria is returned for malformed NbSubMetrics selection criteria
	ErrInvalidCriteria = errors.New("metrics: invalid selection criteria")

	// ErrInvalidPattern is returned for malformed accumulator or group patterns
	ErrInvalidPattern = errors.New("metrics: invalid pattern")

	// ErrUnknownKind is returned when a measurement kind name is not recognized
	ErrUnknownKind = errors.New("metrics: unknown measurement kind")
)

// InitTextError reports a measurement whose init text could not be parsed
type InitTextError struct {
	Measurement string
	InitText    string
	Err         error
}

// Error implements the error interface
func (e *InitTextError) Error() string {
	return fmt.Sprintf("cannot initialize measurement %q with %q: %v", e.Measurement, e.InitText, e.Err)
}

// Unwrap returns the underlying error
func (e *InitTextError) Unwrap() error {
	return e.Err
}
