package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/jmetrics/app"
	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/constants"
)

// runFlags are shared by compute and check
type runFlags struct {
	format     string
	jsonOutput bool
	outputPath string
	configPath string
	project    string
	recursive  bool
	includes   []string
	excludes   []string
	noProgress bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "",
		"Output format: text, json, yaml, csv (default from config, text)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "",
		"Write the output to a file instead of stdout")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "",
		"Path to config file (default: discovered from the first path)")
	cmd.Flags().StringVarP(&f.project, "project", "p", "",
		"Project name (default from config)")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", true,
		"Walk directories recursively")
	cmd.Flags().StringSliceVar(&f.includes, "include", nil,
		"Glob patterns of inputs to include, replacing the configured ones")
	cmd.Flags().StringSliceVar(&f.excludes, "exclude", nil,
		"Glob patterns of inputs to exclude, added to the configured ones")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false,
		"Disable progress bars")
}

// request builds a compute request; flags left at their default keep the configured values
func (f *runFlags) request(cmd *cobra.Command, args []string) (domain.ComputeRequest, error) {
	req := domain.ComputeRequest{
		Paths:           args,
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      f.outputPath,
		ConfigPath:      f.configPath,
		ProjectName:     f.project,
		IncludePatterns: f.includes,
		ExcludePatterns: f.excludes,
	}

	if f.jsonOutput {
		req.OutputFormat = domain.OutputFormatJSON
	} else if f.format != "" {
		format, err := domain.ParseOutputFormat(f.format)
		if err != nil {
			return req, err
		}
		req.OutputFormat = format
	}

	if cmd.Flags().Changed("recursive") {
		req.Recursive = domain.BoolPtr(f.recursive)
	}

	// The progress manager further disables itself outside an interactive terminal
	req.ShowProgress = !f.noProgress
	return req, nil
}

func computeCmd() *cobra.Command {
	flags := &runFlags{}
	var showEmpty, showHidden bool

	cmd := &cobra.Command{
		Use:   "compute [path...]",
		Short: "Compute the metrics tree of Java sources and fact files",
		Long: `Compute the configured measurements over Java sources and fact files and
print the project / package / class / method tree.

Inputs are .java files and fact files (*.facts.yaml, *.facts.json) that
contribute precomputed values to named measurements.

Examples:
  jmetrics compute src/
  jmetrics compute --format csv -o metrics.csv src/ build/facts/
  jmetrics compute --json --show-empty src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd, args)
			if err != nil {
				return err
			}
			req.ShowEmpty = showEmpty
			req.ShowHidden = showHidden

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			resp, err := app.NewComputeUseCase().Execute(ctx, req)
			if err != nil {
				return err
			}
			for _, w := range resp.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showEmpty, "show-empty", false, "Include nodes whose measurements are all empty")
	cmd.Flags().BoolVar(&showHidden, "show-hidden", false, "Include measurements declared invisible")
	return cmd
}

func checkCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check measurements against their configured thresholds",
		Long: `Compute the metrics tree and report every visible measurement outside its
lower_threshold / upper_threshold. Intended for CI/CD pipelines.

Exit codes:
  0 - All measurements within thresholds
  1 - Threshold(s) violated
  2 - Analysis error (missing path, invalid configuration, etc.)

Examples:
  jmetrics check src/
  jmetrics check --json -c .jmetrics.yaml src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &CheckExitError{Code: constants.ExitCodeError, Message: "no paths specified"}
			}
			req, err := flags.request(cmd, args)
			if err != nil {
				return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			result, err := app.NewCheckUseCase(nil).Execute(ctx, req)
			if err != nil {
				return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
			}
			if !result.Passed {
				return &CheckExitError{Code: result.ExitCode}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.register(cmd)
	return cmd
}
