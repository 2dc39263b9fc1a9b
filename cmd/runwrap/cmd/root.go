package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runwrap/runwrap/internal/config"
)

var (
	cfgFile string
	cfg     config.Config

	// exitCode is set by run/docker to propagate the wrapped command's
	// exit code through the process exit status.
	exitCode int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "runwrap",
	Short: "Execution wrapper with timestamped logging and failure reporting",
	Long: `runwrap runs a command or container to completion, captures stdout and
stderr independently with per-line timestamps, records a machine-readable
execution summary, applies age-based log retention, and can dispatch a
notification when the wrapped command fails.

Three artifacts are written per invocation under the log directory:
{prefix}[_{tag}]_{timestamp}.log, .err, and .summary. The error artifact is
removed when the command produced no stderr.`,
}

// Execute runs the CLI and returns the process exit code. The run and
// docker commands exit with the wrapped command's own code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if exitCode == 0 {
			return 1
		}
	}
	return exitCode
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.runwrap/config.yaml)")
}

// initConfig loads the config file and RUNWRAP_* environment overrides.
func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
}
