package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/config"
	"github.com/ludo-technologies/jmetrics/internal/constants"
	"github.com/ludo-technologies/jmetrics/internal/facts"
	"github.com/ludo-technologies/jmetrics/internal/gatherer"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
	"github.com/ludo-technologies/jmetrics/service"
)

// Analysis is the aggregated tree of one run, before it is reported
type Analysis struct {
	Config   *config.Config
	Factory  *metrics.Factory
	Sources  []string
	Warnings []string
	Duration time.Duration
}

// ComputeUseCase orchestrates a run: collect inputs, gather facts in
// parallel, aggregate them into one tree, then report
type ComputeUseCase struct {
	fileHelper *FileHelper
	gatherer   gatherer.SourceGatherer
	formatter  *service.OutputFormatterImpl
}

// NewComputeUseCase creates a compute use case reading Java sources with tree-sitter
func NewComputeUseCase() *ComputeUseCase {
	return NewComputeUseCaseBuilder().Build()
}

// Execute computes the metrics of the requested paths and writes the report
func (uc *ComputeUseCase) Execute(ctx context.Context, req domain.ComputeRequest) (*domain.ComputeResponse, error) {
	analysis, err := uc.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	cfg := analysis.Config
	report := service.BuildReport(analysis.Factory, domain.ReportOptions{
		ShowEmpty:  req.ShowEmpty || cfg.Output.ShowEmpty,
		ShowHidden: req.ShowHidden || cfg.Output.ShowHidden,
	})

	format, err := outputFormat(req.OutputFormat, cfg)
	if err != nil {
		return nil, err
	}

	writer, closeWriter, err := uc.openOutput(req, cfg, "report", format)
	if err != nil {
		return nil, err
	}
	defer closeWriter()

	if err := uc.formatter.Write(report, format, writer); err != nil {
		return nil, domain.NewOutputError("failed to write report", err)
	}

	return &domain.ComputeResponse{
		Report:   report,
		Sources:  analysis.Sources,
		Warnings: analysis.Warnings,
	}, nil
}

// Analyze loads the configuration, collects and gathers every input, and
// applies the facts to a fresh factory. Facts are produced in parallel; the
// tree is only mutated from this goroutine, in input order.
func (uc *ComputeUseCase) Analyze(ctx context.Context, req domain.ComputeRequest) (*Analysis, error) {
	start := time.Now()

	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no input paths specified", nil)
	}

	cfg, err := config.LoadConfigWithTarget(req.ConfigPath, req.Paths[0])
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	applyOverrides(cfg, req)
	configureLogging(cfg)

	configuration, err := cfg.MetricsConfiguration()
	if err != nil {
		return nil, domain.NewConfigError("invalid measurement configuration", err)
	}
	factory, err := metrics.NewFactory(cfg.Project.Name, configuration)
	if err != nil {
		return nil, domain.NewConfigError("invalid measurement configuration", err)
	}

	files, err := uc.fileHelper.WithGitignore(cfg.Analysis.RespectGitignore).CollectSourceFiles(
		req.Paths,
		cfg.Analysis.Recursive,
		cfg.Analysis.IncludePatterns,
		cfg.Analysis.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError(fmt.Sprint(req.Paths), err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Java sources or fact files found in the specified paths", nil)
	}

	pm := service.NewProgressManager(req.ShowProgress)
	defer pm.Close()

	tasks := make([]domain.ExecutableTask, len(files))
	for i, file := range files {
		tasks[i] = &sourceTask{path: file, read: uc.readFacts}
	}

	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, pm, "Gathering facts")
	results, err := executor.ExecuteCollect(ctx, tasks)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewAnalysisError("analysis interrupted", ctxErr)
		}
		var aggregated *service.AggregatedError
		if !errors.As(err, &aggregated) {
			return nil, domain.NewAnalysisError("failed to gather facts", err)
		}
	}

	analysis := &Analysis{Config: cfg, Factory: factory}
	for _, r := range results {
		if r.Err != nil {
			if errors.Is(r.Err, context.DeadlineExceeded) {
				return nil, domain.NewAnalysisError("analysis timed out", r.Err)
			}
			logrus.WithField("file", r.Name).WithError(r.Err).Warn("skipping input")
			analysis.Warnings = append(analysis.Warnings, r.Err.Error())
			continue
		}

		if err := gatherer.Apply(factory, r.Result.(*domain.Facts)); err != nil {
			return nil, domain.NewAnalysisError(fmt.Sprintf("failed to aggregate %s", r.Name), err)
		}
		analysis.Sources = append(analysis.Sources, r.Name)
	}

	if len(analysis.Sources) == 0 {
		return nil, domain.NewAnalysisError("no input could be read", errors.New(analysis.Warnings[0]))
	}

	analysis.Duration = time.Since(start)
	logrus.WithFields(logrus.Fields{
		"sources":  len(analysis.Sources),
		"skipped":  len(analysis.Warnings),
		"duration": analysis.Duration,
	}).Debug("analysis complete")
	return analysis, nil
}

// readFacts turns one input into facts: Java sources are parsed, fact files decoded
func (uc *ComputeUseCase) readFacts(ctx context.Context, path string) (*domain.Facts, error) {
	if !uc.fileHelper.IsJavaFile(path) {
		f, err := facts.LoadFile(path)
		if err != nil {
			return nil, domain.NewParseError(path, err)
		}
		return f, nil
	}

	source, err := uc.fileHelper.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	f, err := uc.gatherer.Gather(ctx, path, source)
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}
	return f, nil
}

// openOutput picks the report destination: an explicit path, the configured
// output directory, or the request writer (stdout by default)
func (uc *ComputeUseCase) openOutput(req domain.ComputeRequest, cfg *config.Config, name string, format domain.OutputFormat) (io.Writer, func(), error) {
	path := req.OutputPath
	if path == "" && cfg.Output.Directory != "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0o755); err != nil {
			return nil, nil, domain.NewOutputError("failed to create output directory", err)
		}
		path = filepath.Join(cfg.Output.Directory, constants.ToolName+"-"+name+"."+format.Extension())
	}

	if path == "" {
		if req.OutputWriter != nil {
			return req.OutputWriter, func() {}, nil
		}
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, domain.NewOutputError("failed to create output file", err)
	}
	return file, func() { _ = file.Close() }, nil
}

// applyOverrides lets command line values take precedence over the configuration file
func applyOverrides(cfg *config.Config, req domain.ComputeRequest) {
	if req.ProjectName != "" {
		cfg.Project.Name = req.ProjectName
	}
	if req.Recursive != nil {
		cfg.Analysis.Recursive = *req.Recursive
	}
	if len(req.IncludePatterns) > 0 {
		cfg.Analysis.IncludePatterns = req.IncludePatterns
	}
	if len(req.ExcludePatterns) > 0 {
		cfg.Analysis.ExcludePatterns = append(cfg.Analysis.ExcludePatterns, req.ExcludePatterns...)
	}
}

// configureLogging applies logging.level unless --verbose already enabled debug output
func configureLogging(cfg *config.Config) {
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logrus.SetLevel(level)
	}
}

func outputFormat(requested domain.OutputFormat, cfg *config.Config) (domain.OutputFormat, error) {
	if requested != "" {
		return domain.ParseOutputFormat(string(requested))
	}
	return domain.ParseOutputFormat(cfg.Output.Format)
}

// sourceTask gathers the facts of one input file
type sourceTask struct {
	path string
	read func(ctx context.Context, path string) (*domain.Facts, error)
}

func (t *sourceTask) Name() string    { return t.path }
func (t *sourceTask) IsEnabled() bool { return true }

func (t *sourceTask) Execute(ctx context.Context) (any, error) {
	return t.read(ctx, t.path)
}

// ComputeUseCaseBuilder provides a builder pattern for creating ComputeUseCase
type ComputeUseCaseBuilder struct {
	fileHelper *FileHelper
	gatherer   gatherer.SourceGatherer
}

// NewComputeUseCaseBuilder creates a new builder
func NewComputeUseCaseBuilder() *ComputeUseCaseBuilder {
	return &ComputeUseCaseBuilder{}
}

// WithFileHelper sets the file helper
func (b *ComputeUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ComputeUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithGatherer sets the Java source gatherer
func (b *ComputeUseCaseBuilder) WithGatherer(g gatherer.SourceGatherer) *ComputeUseCaseBuilder {
	b.gatherer = g
	return b
}

// Build creates the ComputeUseCase, defaulting missing dependencies
func (b *ComputeUseCaseBuilder) Build() *ComputeUseCase {
	uc := &ComputeUseCase{
		fileHelper: b.fileHelper,
		gatherer:   b.gatherer,
		formatter:  service.NewOutputFormatter(),
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	if uc.gatherer == nil {
		uc.gatherer = gatherer.NewJavaGatherer()
	}
	return uc
}
