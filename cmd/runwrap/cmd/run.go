package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/runwrap/runwrap/internal/config"
	"github.com/runwrap/runwrap/internal/metrics"
	"github.com/runwrap/runwrap/internal/notify"
	"github.com/runwrap/runwrap/internal/sysinfo"
	"github.com/runwrap/runwrap/internal/wrapper"
)

var (
	// Shared run/docker flags
	logDir        string
	logPrefix     string
	logTag        string
	retentionDays int
	silent        bool
	verbose       bool
	notifyAddr    string
	runTimeout    time.Duration
	metricsDir    string

	// Run mode specific
	runWorkDir string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a command with timestamped logging and a summary artifact",
	Long: `Run executes a command to completion. Every stdout line is written to the
output log and every stderr line to the error log, each prefixed with a
[YYYY-MM-DD HH:MM:SS] timestamp; the two streams are captured independently.
A summary artifact records the invocation metadata, duration, exit code,
line counts, and SUCCESS/FAILED status. The wrapper exits with the wrapped
command's own exit code.

Before the command starts, artifacts sharing the prefix (any tag) older
than the retention window are deleted; --retention-days 0 disables this.

Artifact names have second resolution: overlapping invocations must use
distinct prefix/tag pairs, or two runs started within the same second will
collide on the same artifact names.

Example:
  runwrap run -- printf 'a\nb\n'
  runwrap run --prefix backup --tag nightly --retention-days 14 -- /usr/local/bin/backup.sh
  runwrap run --notify ops@example.com --timeout 30m -- pg_dump -f /backups/db.sql mydb`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dockerCmd)

	for _, cmd := range []*cobra.Command{runCmd, dockerCmd} {
		cmd.Flags().StringVar(&logDir, "log-dir", "", "directory for log artifacts (default from config)")
		cmd.Flags().StringVar(&logPrefix, "prefix", "", "log file prefix (default: executable or image basename)")
		cmd.Flags().StringVar(&logTag, "tag", "", "custom tag appended to the prefix")
		cmd.Flags().IntVar(&retentionDays, "retention-days", config.DefaultRetentionDays, "delete artifacts older than this many days before running (0 disables)")
		cmd.Flags().BoolVar(&silent, "silent", false, "suppress console echo (artifacts are still written)")
		cmd.Flags().BoolVar(&verbose, "verbose", false, "log wrapper diagnostics")
		cmd.Flags().StringVar(&notifyAddr, "notify", "", "address to notify on failure (empty disables)")
		cmd.Flags().DurationVar(&runTimeout, "timeout", 0, "kill the command after this duration, SIGTERM then SIGKILL (0 waits indefinitely)")
		cmd.Flags().StringVar(&metricsDir, "metrics-dir", "", "write a Prometheus textfile-collector file here after the run")
	}

	runCmd.Flags().StringVar(&runWorkDir, "workdir", "", "working directory for the command")
}

func runCommand(cmd *cobra.Command, args []string) error {
	mergeConfig(cmd)
	return executeWrapped(args, runWorkDir)
}

// executeWrapped drives one invocation through the wrapper and handles the
// post-run concerns shared by run and docker: metrics, notification, and
// exit-code propagation.
func executeWrapped(argv []string, workDir string) error {
	w := wrapper.New(wrapper.Options{
		LogDir:        logDir,
		Prefix:        logPrefix,
		Tag:           logTag,
		RetentionDays: retentionDays,
		Silent:        silent,
		Verbose:       verbose,
		Timeout:       runTimeout,
		Profile:       sysinfo.Detect(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	rec, err := w.Run(ctx, argv, workDir)
	if err != nil {
		// Setup error: the wrapped command never started.
		return err
	}

	if metricsDir != "" {
		if err := metrics.Write(metricsDir, rec); err != nil {
			log.Printf("[runwrap] WARN: failed to write metrics textfile: %v", err)
		}
	}

	if notifyAddr != "" && rec.ExitCode != 0 {
		body, err := os.ReadFile(rec.SummaryPath)
		if err != nil {
			body = []byte("execution failed; summary unavailable: " + err.Error())
		}
		subject := notify.FailureSubject(rec.Hostname, rec.Name, rec.ExitCode)
		if err := notify.Send(notifyAddr, subject, string(body)); err != nil {
			log.Printf("[runwrap] WARN: failed to dispatch failure notification: %v", err)
		}
	}

	exitCode = rec.ExitCode
	return nil
}

// mergeConfig applies config-file values for flags the user did not set.
func mergeConfig(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("log-dir") && cfg.LogDir != "" {
		logDir = cfg.LogDir
	}
	if logDir == "" {
		logDir = config.DefaultLogDir()
	}
	if !flags.Changed("retention-days") {
		retentionDays = cfg.RetentionDays
	}
	if !flags.Changed("notify") && cfg.Notify != "" {
		notifyAddr = cfg.Notify
	}
	if !flags.Changed("silent") && cfg.Silent {
		silent = true
	}
	if !flags.Changed("metrics-dir") && cfg.MetricsDir != "" {
		metricsDir = cfg.MetricsDir
	}
}
