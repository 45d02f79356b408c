package metrics

// Measurement is a named, typed statistic attached to a Metrics node.
// The set of implementations is closed to this package.
type Measurement interface {
	// Descriptor returns the declaration this measurement was created from (may be nil)
	Descriptor() *MeasurementDescriptor

	ShortName() string
	LongName() string

	// Context returns the owning node (may be nil)
	Context() *Metrics

	// Value returns the scalar value, possibly NaN
	Value() float64

	IsEmpty() bool

	// IsInRange is true when no threshold is configured, when the value lies
	// within the thresholds, or when the value is NaN
	IsInRange() bool

	// Add contributes a raw value. Aggregate variants ignore it.
	Add(value any)

	Accept(visitor MeasurementVisitor)

	sealed()
}

// CollectionMeasurement is implemented by measurements that hold string values
type CollectionMeasurement interface {
	Measurement
	Values() []string
}

// snapshot is the scalar state of a computed measurement
type snapshot struct {
	value float64
	empty bool
}

// memo freezes the first computed result of a cached measurement.
// First access is tracked here, per instance, whatever the accessor.
type memo[T any] struct {
	cell *T
}

func (c *memo[T]) load(cached bool, compute func() T) T {
	if c.cell != nil {
		return *c.cell
	}

	v := compute()
	if cached {
		c.cell = &v
	}
	return v
}

// measurementBase carries the state shared by every variant
type measurementBase struct {
	descriptor *MeasurementDescriptor
	context    *Metrics
}

func newMeasurementBase(descriptor *MeasurementDescriptor, context *Metrics) measurementBase {
	return measurementBase{descriptor: descriptor, context: context}
}

func (b *measurementBase) Descriptor() *MeasurementDescriptor {
	return b.descriptor
}

func (b *measurementBase) ShortName() string {
	if b.descriptor == nil {
		return ""
	}
	return b.descriptor.ShortName
}

func (b *measurementBase) LongName() string {
	if b.descriptor == nil {
		return ""
	}
	return b.descriptor.LongName
}

func (b *measurementBase) Context() *Metrics {
	return b.context
}

func (b *measurementBase) isCached() bool {
	return b.descriptor != nil && b.descriptor.Cached
}

func (b *measurementBase) Add(any) {}

func (b *measurementBase) sealed() {}

func (b *measurementBase) inRange(value float64) bool {
	return b.descriptor.InRange(value)
}

// toFloat converts the numeric kinds accepted by Add
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
