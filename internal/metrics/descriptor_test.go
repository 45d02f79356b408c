package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"counter":                KindCounter,
		"Counter":                KindCounter,
		"CounterMeasurement":     KindCounter,
		"single_value":           KindSingleValue,
		"SingleValueMeasurement": KindSingleValue,
		"name-list":              KindNameList,
		"nb_sub_metrics":         KindNbSubMetrics,
		"NbSubMetrics":           KindNbSubMetrics,
		"context_accumulator":    KindContextAccumulator,
		"SubMetricsAccumulator":  KindSubMetricsAccumulator,
		" histogram ":            KindHistogram,
		"StatisticalMeasurement": KindStatistical,
		"RATIO":                  KindRatio,
		"sum":                    KindSum,
	}

	for text, expected := range tests {
		kind, err := ParseKind(text)
		require.NoError(t, err, text)
		assert.Equal(t, expected, kind, text)
	}

	_, err := ParseKind("gauge")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDescriptorCreate(t *testing.T) {
	node := NewMetrics("node")
	d := newDescriptor("S", KindSingleValue, "4")

	m, err := d.Create(node)
	require.NoError(t, err)
	assert.Same(t, d, m.Descriptor())
	assert.Same(t, node, m.Context())
	assert.Equal(t, "S", m.ShortName())
	assert.Equal(t, "S", m.LongName())
	assert.Equal(t, 4.0, m.Value())
}

func TestDescriptorCreateUnknownKind(t *testing.T) {
	_, err := newDescriptor("X", Kind("gauge"), "").Create(NewMetrics("node"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDescriptorValidate(t *testing.T) {
	assert.NoError(t, newDescriptor("NB", KindNbSubMetrics, "A > 1").Validate())
	assert.Error(t, newDescriptor("", KindCounter, "").Validate())
	assert.ErrorIs(t, newDescriptor("ACC", KindContextAccumulator, "A /[/").Validate(), ErrInvalidPattern)
}
