package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/jmetrics/domain"
)

func TestWriteReportText(t *testing.T) {
	report := BuildReport(shopFactory(t), domain.ReportOptions{})

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(report, domain.OutputFormatText, &buf))
	out := buf.String()

	assert.Contains(t, out, "=== Metrics Report ===")
	assert.Contains(t, out, "Project: demo")
	assert.Contains(t, out, "  Out of range: 2\n")
	assert.Contains(t, out, "project demo\n")
	assert.Contains(t, out, "  SLOC: 18 [3 3/6 4.24 12 18 (3)]\n")
	assert.Contains(t, out, "  PUBLIC_CLASSES: 1 {com.acme.Cart}\n")
	assert.Contains(t, out, "  group com.acme\n")
	assert.Contains(t, out, "    class com.acme.Cart\n")
	assert.Contains(t, out, "      M: 2 *\n")
	assert.Contains(t, out, "      SLOC: 15 [3 7.50/7.50 4.50 12 15 (2)] p50=3\n")
	assert.Contains(t, out, "      SLOC_HISTOGRAM: 3 {3:1, 12:1}\n")
	assert.Contains(t, out, "        SLOC: 12 *\n")
	assert.NotContains(t, out, "com.acme.Empty")
}

func TestWriteReportCSV(t *testing.T) {
	report := BuildReport(shopFactory(t), domain.ReportOptions{})

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(report, domain.OutputFormatCSV, &buf))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 11)

	assert.Equal(t, []string{
		"level", "name", "SLOC",
		"SLOC min", "SLOC med", "SLOC avg", "SLOC sdv", "SLOC max", "SLOC sum", "SLOC nb",
		"PUBLIC_CLASSES",
	}, records[0])
	assert.Equal(t, []string{"project", "demo", "18"}, records[1][:3])
	assert.Equal(t, "3", records[1][9])
	assert.Equal(t, "com.acme.Cart", records[1][10])

	assert.Equal(t, []string{"level", "name", "NB_CLASSES"}, records[2])
	assert.Equal(t, []string{"group", "com.acme", "3"}, records[3])

	assert.Contains(t, records[4], "SLOC p50")
	assert.Equal(t, "SLOC_HISTOGRAM", records[4][len(records[4])-1])
	assert.Equal(t, "com.acme.Cart", records[5][1])
	assert.Equal(t, "com.acme.Item", records[6][1])
	assert.Len(t, records[5], len(records[4]))

	assert.Equal(t, []string{"level", "name", "SLOC"}, records[7])
	assert.Equal(t, []string{"method", "com.acme.Cart.add(): void", "3"}, records[8])
}

func TestWriteReportJSONAndYAML(t *testing.T) {
	report := BuildReport(shopFactory(t), domain.ReportOptions{ShowEmpty: true})
	formatter := NewOutputFormatter()

	var jsonBuf bytes.Buffer
	require.NoError(t, formatter.Write(report, domain.OutputFormatJSON, &jsonBuf))
	var decoded domain.MetricsReport
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, "demo", decoded.Project)
	assert.Equal(t, report.Summary, decoded.Summary)
	assert.Contains(t, jsonBuf.String(), `"value": "NaN"`)

	var yamlBuf bytes.Buffer
	require.NoError(t, formatter.Write(report, domain.OutputFormatYAML, &yamlBuf))
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &tree))
	assert.Equal(t, "demo", tree["project"])
	assert.Contains(t, tree, "root")
}

func TestWriteUnsupportedFormat(t *testing.T) {
	formatter := NewOutputFormatter()
	var buf bytes.Buffer
	assert.Error(t, formatter.Write(&domain.MetricsReport{}, domain.OutputFormat("html"), &buf))
	assert.Error(t, formatter.WriteCheck(&domain.CheckResult{}, domain.OutputFormat("html"), &buf))
}

func TestWriteCheck(t *testing.T) {
	report := BuildReport(shopFactory(t), domain.ReportOptions{ShowEmpty: true})
	result := NewCheckResult(FindViolations(report))
	formatter := NewOutputFormatter()

	var text bytes.Buffer
	require.NoError(t, formatter.WriteCheck(result, domain.OutputFormatText, &text))
	assert.Contains(t, text.String(), "class com.acme.Cart: M (M long) is 2, expected <= 1\n")
	assert.Contains(t, text.String(), "Check FAILED: 2 violation(s)")

	var records bytes.Buffer
	require.NoError(t, formatter.WriteCheck(result, domain.OutputFormatCSV, &records))
	rows, err := csv.NewReader(&records).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"class", "com.acme.Cart", "M", "2", "", "1"}, rows[1])

	var js bytes.Buffer
	require.NoError(t, formatter.WriteCheck(result, domain.OutputFormatJSON, &js))
	var decoded domain.CheckResult
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.False(t, decoded.Passed)
	assert.Len(t, decoded.Violations, 2)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   domain.Float
		want string
	}{
		{3, "3"},
		{-2, "-2"},
		{7.5, "7.50"},
		{1.0 / 3, "0.33"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNumber(tt.in))
		})
	}
}
