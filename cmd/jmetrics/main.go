package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/jmetrics/internal/constants"
	"github.com/ludo-technologies/jmetrics/internal/version"
	"github.com/ludo-technologies/jmetrics/service"
)

// CheckExitError carries the process exit code of a command
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "jmetrics",
		Short: "jmetrics - hierarchical metrics for Java code bases",
		Long: `jmetrics aggregates measurements of Java projects into a
project / package / class / method tree: counters, statistics, ratios,
name lists and histograms, declared in a configuration file.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(os.Stderr)
			logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(computeCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *CheckExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(constants.ExitCodeError)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			full, _ := cmd.Flags().GetBool("full")
			out := cmd.OutOrStdout()
			if !full {
				fmt.Fprintf(out, "jmetrics version %s\n", version.GetVersion())
				return nil
			}

			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "json":
				return service.WriteJSON(out, version.GetInfo())
			case "text", "":
				fmt.Fprintln(out, version.GetFullVersion())
				return nil
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().Bool("full", false, "Show detailed version information")
	cmd.Flags().String("format", "text", "Format of the detailed information: text or json")
	return cmd
}
