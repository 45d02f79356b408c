package metrics

import (
	"regexp"
	"strings"
)

// Dispose selects which statistic collapses a StatisticalMeasurement to a single scalar
type Dispose int

const (
	// DisposeIgnore skips statistical measurements and drills down to the next level
	DisposeIgnore Dispose = iota
	DisposeMinimum
	DisposeMedian
	DisposeAverage
	DisposeStandardDeviation
	DisposeMaximum
	DisposeSum
	DisposeNbDataPoints
)

var disposeTokens = map[string]Dispose{
	"DISPOSE_IGNORE":             DisposeIgnore,
	"DISPOSE_MINIMUM":            DisposeMinimum,
	"DISPOSE_MEDIAN":             DisposeMedian,
	"DISPOSE_AVERAGE":            DisposeAverage,
	"DISPOSE_STANDARD_DEVIATION": DisposeStandardDeviation,
	"DISPOSE_MAXIMUM":            DisposeMaximum,
	"DISPOSE_SUM":                DisposeSum,
	"DISPOSE_NB_DATA_POINTS":     DisposeNbDataPoints,
}

// AllDisposes lists the reducing dispositions in report order
var AllDisposes = []Dispose{
	DisposeMinimum,
	DisposeMedian,
	DisposeAverage,
	DisposeStandardDeviation,
	DisposeMaximum,
	DisposeSum,
	DisposeNbDataPoints,
}

// disposeSuffix matches "name DISPOSE_x" at the end of a term
var disposeSuffix = regexp.MustCompile(`(?i)^(.*)\s+(dispose_\w+)$`)

// ParseDispose converts a DISPOSE_x token, case-insensitively
func ParseDispose(token string) (Dispose, bool) {
	d, ok := disposeTokens[strings.ToUpper(strings.TrimSpace(token))]
	return d, ok
}

// String returns the wire token, e.g. DISPOSE_AVERAGE
func (d Dispose) String() string {
	for token, value := range disposeTokens {
		if value == d {
			return token
		}
	}
	return "DISPOSE_IGNORE"
}

// Label returns the human readable label used by printers
func (d Dispose) Label() string {
	switch d {
	case DisposeMinimum:
		return "minimum"
	case DisposeMedian:
		return "median"
	case DisposeAverage:
		return "average"
	case DisposeStandardDeviation:
		return "standard deviation"
	case DisposeMaximum:
		return "maximum"
	case DisposeSum:
		return "sum"
	case DisposeNbDataPoints:
		return "number of data points"
	default:
		return ""
	}
}

// Abbreviation returns the three letter (or shorter) column label
func (d Dispose) Abbreviation() string {
	switch d {
	case DisposeMinimum:
		return "min"
	case DisposeMedian:
		return "med"
	case DisposeAverage:
		return "avg"
	case DisposeStandardDeviation:
		return "sdv"
	case DisposeMaximum:
		return "max"
	case DisposeSum:
		return "sum"
	case DisposeNbDataPoints:
		return "nb"
	default:
		return ""
	}
}

// splitDispose separates a trailing DISPOSE_x token from a measurement name.
// An unknown token is reported through known=false and leaves DisposeIgnore.
func splitDispose(text string) (name string, dispose Dispose, token string, known bool) {
	text = strings.TrimSpace(text)
	match := disposeSuffix.FindStringSubmatch(text)
	if match == nil {
		return text, DisposeIgnore, "", true
	}

	name = strings.TrimSpace(match[1])
	token = match[2]
	dispose, known = ParseDispose(token)
	if !known {
		dispose = DisposeIgnore
	}
	return name, dispose, token, known
}
