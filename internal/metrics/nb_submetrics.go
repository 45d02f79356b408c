package metrics

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// equalityTolerance is the absolute tolerance of == and != in selection criteria
const equalityTolerance = 0.1

// operators in longest-match-first order
var criteriaOperators = regexp.MustCompile(`<=|>=|==|!=|<|>`)

type comparison struct {
	left     operand
	operator string
	right    operand
}

type operand struct {
	literal *float64
	name    string
	dispose Dispose
}

// criterion is one init text line. A single operand with no operator is a
// presence test; otherwise every comparison of the chain must hold.
type criterion struct {
	presence    string
	comparisons []comparison
}

// NbSubMetricsMeasurement counts the direct sub-metrics of its context that
// satisfy at least one criteria line. Without criteria it counts them all.
type NbSubMetricsMeasurement struct {
	measurementBase
	criteria []criterion
	state    memo[snapshot]
}

func NewNbSubMetricsMeasurement(descriptor *MeasurementDescriptor, context *Metrics, initText string) (*NbSubMetricsMeasurement, error) {
	m := &NbSubMetricsMeasurement{measurementBase: newMeasurementBase(descriptor, context)}

	for _, line := range initLines(initText) {
		if line == "" {
			continue
		}
		c, err := parseCriterion(line)
		if err != nil {
			return nil, err
		}
		m.criteria = append(m.criteria, c)
	}
	return m, nil
}

func parseCriterion(line string) (criterion, error) {
	operators := criteriaOperators.FindAllString(line, -1)
	operands := criteriaOperators.Split(line, -1)
	for i := range operands {
		operands[i] = strings.TrimSpace(operands[i])
		if operands[i] == "" {
			return criterion{}, fmt.Errorf("%w: empty operand in %q", ErrInvalidCriteria, line)
		}
	}

	if len(operators) == 0 {
		return criterion{presence: operands[0]}, nil
	}

	var c criterion
	for i, op := range operators {
		left, err := parseOperand(operands[i])
		if err != nil {
			return criterion{}, fmt.Errorf("%w in %q", err, line)
		}
		right, err := parseOperand(operands[i+1])
		if err != nil {
			return criterion{}, fmt.Errorf("%w in %q", err, line)
		}
		c.comparisons = append(c.comparisons, comparison{left: left, operator: op, right: right})
	}
	return c, nil
}

func parseOperand(text string) (operand, error) {
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return operand{literal: &v}, nil
	}

	name, dispose, token, known := splitDispose(text)
	if !known {
		return operand{}, fmt.Errorf("%w: unknown dispose %q", ErrInvalidCriteria, token)
	}
	return operand{name: name, dispose: dispose}, nil
}

// resolve returns false when the node does not track the named measurement
func (o operand) resolve(node *Metrics) (float64, bool) {
	if o.literal != nil {
		return *o.literal, true
	}
	m := node.Measurement(o.name)
	if m == nil {
		return 0, false
	}
	return reduce(m, o.dispose), true
}

func (c comparison) holds(node *Metrics) bool {
	left, ok := c.left.resolve(node)
	if !ok {
		return false
	}
	right, ok := c.right.resolve(node)
	if !ok {
		return false
	}

	switch c.operator {
	case "<":
		return left < right
	case "<=":
		return left <= right
	case ">":
		return left > right
	case ">=":
		return left >= right
	case "==":
		return math.Abs(left-right) <= equalityTolerance
	case "!=":
		return math.Abs(left-right) > equalityTolerance
	default:
		return false
	}
}

func (c criterion) matches(node *Metrics) bool {
	if c.presence != "" {
		return node.HasMeasurement(c.presence)
	}
	for _, cmp := range c.comparisons {
		if !cmp.holds(node) {
			return false
		}
	}
	return true
}

// Selects reports whether a node satisfies the criteria
func (m *NbSubMetricsMeasurement) Selects(node *Metrics) bool {
	if len(m.criteria) == 0 {
		return true
	}
	for _, c := range m.criteria {
		if c.matches(node) {
			return true
		}
	}
	return false
}

func (m *NbSubMetricsMeasurement) compute() snapshot {
	if m.context == nil {
		return snapshot{empty: true}
	}

	count := 0
	for _, child := range m.context.SubMetrics() {
		if m.Selects(child) {
			count++
		}
	}
	logger.WithFields(logrus.Fields{"node": m.context.Name(), "measurement": m.ShortName(), "count": count}).
		Debug("counted sub-metrics")
	return snapshot{value: float64(count), empty: count == 0}
}

func (m *NbSubMetricsMeasurement) Value() float64 {
	return m.state.load(m.isCached(), m.compute).value
}

func (m *NbSubMetricsMeasurement) IsEmpty() bool {
	return m.state.load(m.isCached(), m.compute).empty
}

func (m *NbSubMetricsMeasurement) IsInRange() bool {
	return m.inRange(m.Value())
}

func (m *NbSubMetricsMeasurement) Accept(visitor MeasurementVisitor) {
	visitor.VisitNbSubMetrics(m)
}
