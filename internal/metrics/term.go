package metrics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var numericLiteral = regexp.MustCompile(`^[-+]?(\d|\.\d)`)

// term is one operand of a Sum or Ratio formula: either a constant or a
// reference to a measurement of the owning node, optionally reduced through
// a dispose mode.
type term struct {
	negated  bool
	constant float64
	name     string
	dispose  Dispose
}

func (t term) isConstant() bool {
	return t.name == ""
}

// parseTerm reads "[-]literal" or "[-]name [DISPOSE_x]". A token that looks
// numeric but fails to parse becomes the constant 0.
func parseTerm(text string) term {
	text = strings.TrimSpace(text)

	var t term
	if strings.HasPrefix(text, "-") && !numericLiteral.MatchString(text) {
		t.negated = true
		text = strings.TrimSpace(text[1:])
	}

	if numericLiteral.MatchString(text) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			logger.WithField("term", text).Debug("malformed numeric literal, using 0")
			v = 0
		}
		t.constant = v
		return t
	}

	name, dispose, token, known := splitDispose(text)
	if !known {
		logger.WithFields(logrus.Fields{"term": text, "dispose": token}).Warn("unknown dispose token, using DISPOSE_IGNORE")
	}
	t.name = name
	t.dispose = dispose
	return t
}

// resolve looks the referenced measurement up on the given node. Constants
// and absent measurements return nil.
func (t term) resolve(context *Metrics) Measurement {
	if t.isConstant() || context == nil {
		return nil
	}
	return context.Measurement(t.name)
}

// evaluate reduces the term to a scalar. An absent measurement contributes 0.
func (t term) evaluate(context *Metrics) float64 {
	var v float64
	if t.isConstant() {
		v = t.constant
	} else if m := t.resolve(context); m != nil {
		v = reduce(m, t.dispose)
	} else {
		logger.WithField("measurement", t.name).Debug("term references an absent measurement")
	}

	if t.negated {
		return -v
	}
	return v
}

// reduce collapses a measurement to a scalar. Statistical measurements use
// the dispose mode unless it is DisposeIgnore.
func reduce(m Measurement, dispose Dispose) float64 {
	if stats, ok := m.(*StatisticalMeasurement); ok && dispose != DisposeIgnore {
		return stats.Reduce(dispose)
	}
	return m.Value()
}

// initLines splits init text into trimmed lines, keeping blank ones
func initLines(initText string) []string {
	initText = strings.ReplaceAll(initText, "\r\n", "\n")
	if strings.TrimSpace(initText) == "" {
		return nil
	}

	lines := strings.Split(initText, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}
