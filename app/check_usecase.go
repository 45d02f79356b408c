package app

import (
	"context"
	"time"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/version"
	"github.com/ludo-technologies/jmetrics/service"
)

// CheckUseCase verifies every visible measurement against its configured
// thresholds. Empty nodes are checked too.
type CheckUseCase struct {
	compute   *ComputeUseCase
	formatter *service.OutputFormatterImpl
}

// NewCheckUseCase creates a check use case running on top of a compute use case
func NewCheckUseCase(compute *ComputeUseCase) *CheckUseCase {
	if compute == nil {
		compute = NewComputeUseCase()
	}
	return &CheckUseCase{compute: compute, formatter: service.NewOutputFormatter()}
}

// Execute analyzes the requested paths and writes the check result. The
// report options of the request are ignored. A non-nil error means the
// analysis itself failed; violations are reported through the result.
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.ComputeRequest) (*domain.CheckResult, error) {
	start := time.Now()

	analysis, err := uc.compute.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	report := service.BuildReport(analysis.Factory, domain.ReportOptions{ShowEmpty: true})
	result := service.NewCheckResult(service.FindViolations(report))
	result.Summary.SourcesAnalyzed = len(analysis.Sources)
	result.Duration = time.Since(start).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)
	result.Version = version.GetVersion()

	format, err := outputFormat(req.OutputFormat, analysis.Config)
	if err != nil {
		return nil, err
	}

	writer, closeWriter, err := uc.compute.openOutput(req, analysis.Config, "check", format)
	if err != nil {
		return nil, err
	}
	defer closeWriter()

	if err := uc.formatter.WriteCheck(result, format, writer); err != nil {
		return nil, domain.NewOutputError("failed to write check result", err)
	}
	return result, nil
}
