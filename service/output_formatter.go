package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
)

// OutputFormatterImpl writes reports and check results
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes the metrics report in the specified format
func (f *OutputFormatterImpl) Write(report *domain.MetricsReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, report)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, report)
	case domain.OutputFormatCSV:
		return f.writeReportCSV(report, writer)
	case domain.OutputFormatText:
		return f.writeReportText(report, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatNumber prints integers without decimals and other values with two
func formatNumber(v domain.Float) string {
	x := float64(v)
	if math.IsNaN(x) || math.IsInf(x, 0) || x == math.Trunc(x) {
		return v.String()
	}
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func (f *OutputFormatterImpl) writeReportText(report *domain.MetricsReport, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Metrics Report ===\n\n")
	fmt.Fprintf(writer, "Project: %s\n", report.Project)
	fmt.Fprintf(writer, "Generated: %s\n", report.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", report.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Groups: %d\n", report.Summary.Groups)
	fmt.Fprintf(writer, "  Classes: %d\n", report.Summary.Classes)
	fmt.Fprintf(writer, "  Methods: %d\n", report.Summary.Methods)
	fmt.Fprintf(writer, "  Out of range: %d\n\n", report.Summary.OutOfRange)

	if report.Root != nil {
		writeNodeText(writer, report.Root, 0)
	}
	return nil
}

func writeNodeText(writer io.Writer, n *domain.NodeReport, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(writer, "%s%s %s\n", indent, n.Level, n.Name)
	for _, m := range n.Measurements {
		fmt.Fprintf(writer, "%s  %s\n", indent, measurementText(m))
	}
	for _, child := range n.Children {
		writeNodeText(writer, child, depth+1)
	}
}

// measurementText renders one line, e.g. "SLOC: 7.50 [1 3/7.50 4.12 12 30 (4)] *"
func measurementText(m domain.MeasurementReport) string {
	var sb strings.Builder
	sb.WriteString(m.ShortName)
	sb.WriteString(": ")
	if m.Empty {
		sb.WriteString("-")
	} else {
		sb.WriteString(formatNumber(m.Value))
	}

	if s := m.Statistics; s != nil {
		fmt.Fprintf(&sb, " [%s %s/%s %s %s %s (%d)]",
			formatNumber(s.Minimum), formatNumber(s.Median), formatNumber(s.Average),
			formatNumber(s.StandardDeviation), formatNumber(s.Maximum), formatNumber(s.Sum), s.NbDataPoints)
		for _, label := range domain.SortedKeys(s.Percentiles) {
			fmt.Fprintf(&sb, " %s=%s", label, formatNumber(s.Percentiles[label]))
		}
	}
	if len(m.Values) > 0 {
		fmt.Fprintf(&sb, " {%s}", strings.Join(m.Values, ", "))
	}
	if len(m.Histogram) > 0 {
		buckets := make([]string, len(m.Histogram))
		for i, b := range m.Histogram {
			buckets[i] = fmt.Sprintf("%s:%d", formatNumber(b.Key), b.Count)
		}
		fmt.Fprintf(&sb, " {%s}", strings.Join(buckets, ", "))
		if m.Plot != "" && m.Plot != metrics.PlotLinear.String() {
			fmt.Fprintf(&sb, " (%s)", m.Plot)
		}
	}
	if !m.InRange {
		sb.WriteString(" *")
	}
	return sb.String()
}

// writeReportCSV writes one section per level. Each section starts with its
// own header row; statistical columns are expanded per statistic.
func (f *OutputFormatterImpl) writeReportCSV(report *domain.MetricsReport, writer io.Writer) error {
	w := csv.NewWriter(writer)
	nodes := nodesByLevel(report.Root)

	for _, level := range []string{domain.LevelProject, domain.LevelGroup, domain.LevelClass, domain.LevelMethod} {
		columns := report.Columns.Level(level)
		header := []string{"level", "name"}
		for _, c := range columns {
			header = append(header, c.ShortName)
			if c.Kind == string(metrics.KindStatistical) {
				for _, d := range metrics.AllDisposes {
					header = append(header, c.ShortName+" "+d.Abbreviation())
				}
				for _, p := range c.Percentiles {
					header = append(header, c.ShortName+" "+metrics.PercentileLabel(p))
				}
			}
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for _, n := range nodes[level] {
			row := []string{n.Level, n.Name}
			for _, c := range columns {
				row = append(row, csvCells(n.Measurement(c.ShortName), c)...)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func csvCells(m *domain.MeasurementReport, c domain.ColumnReport) []string {
	width := 1
	if c.Kind == string(metrics.KindStatistical) {
		width += len(metrics.AllDisposes) + len(c.Percentiles)
	}
	cells := make([]string, width)
	if m == nil {
		return cells
	}

	if len(m.Values) > 0 {
		cells[0] = strings.Join(m.Values, ";")
	} else if !m.Empty {
		cells[0] = m.Value.String()
	}

	if s := m.Statistics; s != nil {
		stats := []domain.Float{s.Minimum, s.Median, s.Average, s.StandardDeviation, s.Maximum, s.Sum, domain.Float(s.NbDataPoints)}
		for i, v := range stats {
			cells[1+i] = v.String()
		}
		for i, p := range c.Percentiles {
			if v, ok := s.Percentiles[metrics.PercentileLabel(p)]; ok {
				cells[1+len(stats)+i] = v.String()
			}
		}
	}
	return cells
}

// nodesByLevel lists each node once per level, sorted by name
func nodesByLevel(root *domain.NodeReport) map[string][]*domain.NodeReport {
	out := make(map[string][]*domain.NodeReport)
	seen := make(map[string]struct{})
	root.Walk(func(n *domain.NodeReport) {
		key := n.Level + "\x00" + n.Name
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out[n.Level] = append(out[n.Level], n)
	})
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return out
}

// WriteCheck writes a check result in the specified format
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, result)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, result)
	case domain.OutputFormatCSV:
		return f.writeCheckCSV(result, writer)
	case domain.OutputFormatText:
		return f.writeCheckText(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatterImpl) writeCheckText(result *domain.CheckResult, writer io.Writer) error {
	for _, v := range result.Violations {
		fmt.Fprintf(writer, "%s %s: %s\n", v.Level, v.Node, v.Message)
	}

	status := "PASSED"
	if !result.Passed {
		status = "FAILED"
	}
	fmt.Fprintf(writer, "\nCheck %s: %d violation(s) in %d node(s), %d measurement(s) checked over %d source(s)\n",
		status, result.Summary.TotalViolations, result.Summary.NodesChecked,
		result.Summary.MeasurementsChecked, result.Summary.SourcesAnalyzed)
	return nil
}

func (f *OutputFormatterImpl) writeCheckCSV(result *domain.CheckResult, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write([]string{"level", "node", "measurement", "value", "lower_threshold", "upper_threshold"}); err != nil {
		return err
	}
	for _, v := range result.Violations {
		record := []string{v.Level, v.Node, v.Measurement, v.Value.String(), formatThreshold(v.Lower), formatThreshold(v.Upper)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatThreshold(t *float64) string {
	if t == nil {
		return ""
	}
	return domain.Float(*t).String()
}
