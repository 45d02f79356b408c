package service

import (
	"sort"
	"time"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
	"github.com/ludo-technologies/jmetrics/internal/version"
)

var levelNames = map[metrics.Level]string{
	metrics.LevelProject: domain.LevelProject,
	metrics.LevelGroup:   domain.LevelGroup,
	metrics.LevelClass:   domain.LevelClass,
	metrics.LevelMethod:  domain.LevelMethod,
}

// BuildReport snapshots the tree of a factory into report DTOs. The tree is
// only read: project, then included groups, classes and methods, each level
// sorted by name. Measurements are listed in declaration order.
func BuildReport(factory *metrics.Factory, opts domain.ReportOptions) *domain.MetricsReport {
	configuration := factory.Configuration()
	b := &reportBuilder{configuration: configuration, opts: opts, seen: make(map[string]struct{})}

	report := &domain.MetricsReport{
		Project:     factory.ProjectName(),
		Version:     version.GetVersion(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Columns: domain.LevelColumns{
			Project: b.columns(metrics.LevelProject),
			Group:   b.columns(metrics.LevelGroup),
			Class:   b.columns(metrics.LevelClass),
			Method:  b.columns(metrics.LevelMethod),
		},
	}

	report.Root = b.node(factory.CreateProjectMetrics(), metrics.LevelProject)
	report.Summary = b.summary
	return report
}

type reportBuilder struct {
	configuration *metrics.Configuration
	opts          domain.ReportOptions
	summary       domain.ReportSummary
	seen          map[string]struct{}
}

func (b *reportBuilder) node(m *metrics.Metrics, level metrics.Level) *domain.NodeReport {
	n := &domain.NodeReport{
		Name:         m.Name(),
		Level:        levelNames[level],
		Measurements: b.measurements(m, level),
	}
	b.count(n, level)

	if level == metrics.LevelMethod {
		return n
	}

	children := m.SubMetrics()
	sort.SliceStable(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
	for _, child := range children {
		if !b.opts.ShowEmpty && child.IsEmpty() {
			continue
		}
		n.Children = append(n.Children, b.node(child, level+1))
	}
	return n
}

// count tallies each node once, even when a class is listed under several groups
func (b *reportBuilder) count(n *domain.NodeReport, level metrics.Level) {
	key := n.Level + "\x00" + n.Name
	if _, ok := b.seen[key]; ok {
		return
	}
	b.seen[key] = struct{}{}

	switch level {
	case metrics.LevelGroup:
		b.summary.Groups++
	case metrics.LevelClass:
		b.summary.Classes++
	case metrics.LevelMethod:
		b.summary.Methods++
	}
	for _, mr := range n.Measurements {
		if !mr.InRange {
			b.summary.OutOfRange++
			break
		}
	}
}

func (b *reportBuilder) visible(d *metrics.MeasurementDescriptor) bool {
	return d.Visible || b.opts.ShowHidden
}

func (b *reportBuilder) measurements(m *metrics.Metrics, level metrics.Level) []domain.MeasurementReport {
	var out []domain.MeasurementReport
	for _, d := range b.configuration.Measurements(level) {
		if !b.visible(d) {
			continue
		}
		measurement := m.Measurement(d.ShortName)
		if measurement == nil {
			continue
		}
		out = append(out, snapshotMeasurement(measurement))
	}
	return out
}

func (b *reportBuilder) columns(level metrics.Level) []domain.ColumnReport {
	var out []domain.ColumnReport
	for _, d := range b.configuration.Measurements(level) {
		if !b.visible(d) {
			continue
		}
		column := domain.ColumnReport{
			ShortName: d.ShortName,
			LongName:  d.LongName,
			Kind:      string(d.Kind),
			Lower:     d.LowerThreshold,
			Upper:     d.UpperThreshold,
		}
		// Requested percentiles live in the init text; a detached instance parses them
		if d.Kind == metrics.KindStatistical {
			if m, err := d.Create(nil); err == nil {
				column.Percentiles = m.(*metrics.StatisticalMeasurement).RequestedPercentiles()
			}
		}
		out = append(out, column)
	}
	return out
}

// snapshotMeasurement reads a measurement once into its report DTO
func snapshotMeasurement(m metrics.Measurement) domain.MeasurementReport {
	v := &snapshotVisitor{report: domain.MeasurementReport{
		ShortName: m.ShortName(),
		LongName:  m.LongName(),
		Kind:      string(metrics.KindOf(m)),
		Value:     domain.Float(m.Value()),
		Empty:     m.IsEmpty(),
		InRange:   m.IsInRange(),
	}}
	m.Accept(v)
	return v.report
}

type snapshotVisitor struct {
	metrics.NoopVisitor
	report domain.MeasurementReport
}

func (v *snapshotVisitor) VisitNameList(m *metrics.NameListMeasurement) {
	v.report.Values = m.Values()
}

func (v *snapshotVisitor) VisitContextAccumulator(m *metrics.ContextAccumulatorMeasurement) {
	v.report.Values = m.Values()
}

func (v *snapshotVisitor) VisitSubMetricsAccumulator(m *metrics.SubMetricsAccumulatorMeasurement) {
	v.report.Values = m.Values()
}

func (v *snapshotVisitor) VisitStatistical(m *metrics.StatisticalMeasurement) {
	stats := &domain.StatisticsReport{
		Minimum:           domain.Float(m.Minimum()),
		Median:            domain.Float(m.Median()),
		Average:           domain.Float(m.Average()),
		StandardDeviation: domain.Float(m.StandardDeviation()),
		Maximum:           domain.Float(m.Maximum()),
		Sum:               domain.Float(m.Sum()),
		NbDataPoints:      m.NbDataPoints(),
	}
	if requested := m.RequestedPercentiles(); len(requested) > 0 {
		stats.Percentiles = make(map[string]domain.Float, len(requested))
		for _, p := range requested {
			stats.Percentiles[metrics.PercentileLabel(p)] = domain.Float(m.Percentile(p))
		}
	}
	v.report.Statistics = stats
}

func (v *snapshotVisitor) VisitHistogram(m *metrics.HistogramMeasurement) {
	for _, bucket := range m.Buckets() {
		v.report.Histogram = append(v.report.Histogram, domain.HistogramBucket{Key: domain.Float(bucket.Key), Count: bucket.Count})
	}
	v.report.Plot = m.Plot().String()
}
