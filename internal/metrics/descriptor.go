package metrics

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies a measurement variant
type Kind string

const (
	KindCounter               Kind = "counter"
	KindSingleValue           Kind = "single_value"
	KindNameList              Kind = "name_list"
	KindStatistical           Kind = "statistical"
	KindRatio                 Kind = "ratio"
	KindSum                   Kind = "sum"
	KindNbSubMetrics          Kind = "nb_sub_metrics"
	KindContextAccumulator    Kind = "context_accumulator"
	KindSubMetricsAccumulator Kind = "sub_metrics_accumulator"
	KindHistogram             Kind = "histogram"
)

// AllKinds lists every measurement variant
var AllKinds = []Kind{
	KindCounter,
	KindSingleValue,
	KindNameList,
	KindStatistical,
	KindRatio,
	KindSum,
	KindNbSubMetrics,
	KindContextAccumulator,
	KindSubMetricsAccumulator,
	KindHistogram,
}

// ParseKind accepts "nb_sub_metrics", "NbSubMetrics", "nb-sub-metrics" or
// "NbSubMetricsMeasurement" alike.
func ParseKind(text string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimSuffix(normalized, "measurement")
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)

	for _, kind := range AllKinds {
		if strings.ReplaceAll(string(kind), "_", "") == normalized {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, text)
}

// MeasurementDescriptor declares a measurement for one level of the tree.
// It is a factory for Measurement instances and must not be modified once
// measurements have been created from it.
type MeasurementDescriptor struct {
	ShortName      string
	LongName       string
	Kind           Kind
	InitText       string
	Visible        bool
	Cached         bool
	LowerThreshold *float64
	UpperThreshold *float64
}

// Create instantiates the declared variant for the given owning node and parses its init text
func (d *MeasurementDescriptor) Create(context *Metrics) (Measurement, error) {
	var (
		m   Measurement
		err error
	)

	switch d.Kind {
	case KindCounter:
		m = NewCounterMeasurement(d, context, d.InitText)
	case KindSingleValue:
		m = NewSingleValueMeasurement(d, context, d.InitText)
	case KindNameList:
		m = NewNameListMeasurement(d, context, d.InitText)
	case KindStatistical:
		m = NewStatisticalMeasurement(d, context, d.InitText)
	case KindRatio:
		m = NewRatioMeasurement(d, context, d.InitText)
	case KindSum:
		m = NewSumMeasurement(d, context, d.InitText)
	case KindNbSubMetrics:
		m, err = NewNbSubMetricsMeasurement(d, context, d.InitText)
	case KindContextAccumulator:
		m, err = NewContextAccumulatorMeasurement(d, context, d.InitText)
	case KindSubMetricsAccumulator:
		m, err = NewSubMetricsAccumulatorMeasurement(d, context, d.InitText)
	case KindHistogram:
		m = NewHistogramMeasurement(d, context, d.InitText)
	default:
		return nil, fmt.Errorf("%w: %q for measurement %q", ErrUnknownKind, d.Kind, d.ShortName)
	}

	if err != nil {
		return nil, &InitTextError{Measurement: d.ShortName, InitText: d.InitText, Err: err}
	}
	return m, nil
}

// Validate checks that the init text parses for the declared variant
func (d *MeasurementDescriptor) Validate() error {
	if d.ShortName == "" {
		return fmt.Errorf("measurement descriptor has no short name")
	}
	_, err := d.Create(NewMetrics(""))
	return err
}

// HasThresholds reports whether a lower or upper threshold is configured
func (d *MeasurementDescriptor) HasThresholds() bool {
	return d != nil && (d.LowerThreshold != nil || d.UpperThreshold != nil)
}

// InRange reports whether value lies within the configured thresholds. NaN is always in range.
func (d *MeasurementDescriptor) InRange(value float64) bool {
	if d == nil || math.IsNaN(value) {
		return true
	}
	if d.LowerThreshold != nil && value < *d.LowerThreshold {
		return false
	}
	if d.UpperThreshold != nil && value > *d.UpperThreshold {
		return false
	}
	return true
}

// Threshold is a helper for building descriptors in code
func Threshold(value float64) *float64 {
	return &value
}
