package service

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/constants"
)

// FindViolations lists every reported measurement outside its thresholds.
// The report should be built with ShowEmpty so that no node escapes the check.
// A class listed under several groups is reported once.
func FindViolations(report *domain.MetricsReport) ([]domain.CheckViolation, domain.CheckSummary) {
	var (
		violations []domain.CheckViolation
		summary    domain.CheckSummary
		seen       = make(map[string]struct{})
	)

	report.Root.Walk(func(n *domain.NodeReport) {
		key := n.Level + "\x00" + n.Name
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		summary.NodesChecked++

		for _, m := range n.Measurements {
			summary.MeasurementsChecked++
			if m.InRange {
				continue
			}
			column := report.Columns.Find(n.Level, m.ShortName)
			v := domain.CheckViolation{
				Level:       n.Level,
				Node:        n.Name,
				Measurement: m.ShortName,
				LongName:    m.LongName,
				Value:       m.Value,
			}
			if column != nil {
				v.Lower, v.Upper = column.Lower, column.Upper
			}
			v.Message = violationMessage(v)
			violations = append(violations, v)
		}
	})

	summary.TotalViolations = len(violations)
	return violations, summary
}

// NewCheckResult wraps violations into a result with its exit code
func NewCheckResult(violations []domain.CheckViolation, summary domain.CheckSummary) *domain.CheckResult {
	result := &domain.CheckResult{
		Passed:     len(violations) == 0,
		ExitCode:   constants.ExitCodeSuccess,
		Violations: violations,
		Summary:    summary,
	}
	if !result.Passed {
		result.ExitCode = constants.ExitCodeViolation
	}
	if result.Violations == nil {
		result.Violations = []domain.CheckViolation{}
	}
	return result
}

func violationMessage(v domain.CheckViolation) string {
	var bounds []string
	if v.Lower != nil {
		bounds = append(bounds, fmt.Sprintf(">= %s", domain.Float(*v.Lower)))
	}
	if v.Upper != nil {
		bounds = append(bounds, fmt.Sprintf("<= %s", domain.Float(*v.Upper)))
	}
	name := v.Measurement
	if v.LongName != "" && v.LongName != v.Measurement {
		name = fmt.Sprintf("%s (%s)", v.Measurement, v.LongName)
	}
	return fmt.Sprintf("%s is %s, expected %s", name, formatNumber(v.Value), strings.Join(bounds, " and "))
}
