package wrapper

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/runwrap/runwrap/internal/sysinfo"
)

// killGracePeriod is how long a timed-out process gets between SIGTERM and
// SIGKILL.
const killGracePeriod = 10 * time.Second

// Options configure one invocation. Zero values fall back to defaults at
// the CLI layer; the wrapper itself only requires LogDir.
type Options struct {
	LogDir        string
	Prefix        string // defaults to the executable basename
	Tag           string // optional, appended to the prefix in artifact names
	RetentionDays int    // 0 disables the retention pass
	Silent        bool   // suppress console echo; artifacts are still written
	Verbose       bool
	Timeout       time.Duration // 0 waits indefinitely
	Profile       sysinfo.Profile
}

// Wrapper runs one command to completion, capturing both output streams
// into timestamped artifacts and recording an execution summary. One
// invocation per Wrapper; it never retries.
type Wrapper struct {
	opts  Options
	state State
}

// New creates a wrapper in the pending state.
func New(opts Options) *Wrapper {
	return &Wrapper{opts: opts, state: StatePending}
}

// State returns the current lifecycle state.
func (w *Wrapper) State() State {
	return w.state
}

// Run executes argv to completion and returns the finalized execution
// record. The record's ExitCode is the wrapped command's own code, taken
// from the process-wait call, never from an intermediate logging stage.
//
// Setup failures (empty command, unusable log directory) return an error
// before the child process is started. Failures of the wrapped command are
// not errors here: they are captured in the record.
func (w *Wrapper) Run(ctx context.Context, argv []string, workDir string) (*Record, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("no command specified")
	}

	prefix := w.opts.Prefix
	if prefix == "" {
		prefix = filepath.Base(argv[0])
	}

	// Retention runs first so a long-lived prefix does not accumulate
	// artifacts. Best effort, nothing to report.
	ApplyRetention(w.opts.LogDir, prefix, w.opts.RetentionDays)

	invokedAt := time.Now()
	var echoOut, echoErr io.Writer
	if !w.opts.Silent {
		echoOut, echoErr = os.Stdout, os.Stderr
	}

	set, err := OpenArtifacts(w.opts.LogDir, prefix, w.opts.Tag, invokedAt, echoOut, echoErr)
	if err != nil {
		return nil, err
	}

	hostname := w.opts.Profile.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	rec := &Record{
		Name:        set.Name,
		Prefix:      prefix,
		Tag:         w.opts.Tag,
		Command:     strings.Join(argv, " "),
		WorkDir:     effectiveWorkDir(workDir),
		User:        currentUser(),
		Hostname:    hostname,
		InvokedAt:   invokedAt,
		State:       StatePending,
		OutputPath:  set.OutputPath,
		ErrorPath:   set.ErrorPath,
		SummaryPath: set.SummaryPath,
	}

	summary, err := os.Create(set.SummaryPath)
	if err != nil {
		set.Close()
		set.RemoveErrorIfEmpty()
		return nil, fmt.Errorf("failed to create summary %s: %w", set.SummaryPath, err)
	}

	if err := writeSummaryHeader(summary, rec, w.opts.Profile); err != nil {
		summary.Close()
		set.Close()
		set.RemoveErrorIfEmpty()
		return nil, fmt.Errorf("failed to write summary header: %w", err)
	}

	if w.opts.Verbose {
		log.Printf("[wrapper] logging to %s", set.OutputPath)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = set.Stdout
	cmd.Stderr = set.Stderr
	// Own process group so a timeout or cancellation can signal the whole
	// tree, not just the direct child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		w.state = StateFailed
		fmt.Fprintf(summary, "Status: FAILED\nError: %v\n", err)
		summary.Close()
		set.Close()
		set.RemoveErrorIfEmpty()
		return nil, fmt.Errorf("failed to start command: %w", err)
	}

	w.state = StateRunning
	rec.StartedAt = time.Now()
	pid := cmd.Process.Pid
	if w.opts.Verbose {
		log.Printf("[wrapper] started PID %d", pid)
	}

	var timedOut atomic.Bool
	var timer *time.Timer
	if w.opts.Timeout > 0 {
		timer = time.AfterFunc(w.opts.Timeout, func() {
			timedOut.Store(true)
			log.Printf("[wrapper] WARN: timeout after %s, sending %s to PID %d",
				w.opts.Timeout, SignalName(syscall.SIGTERM), pid)
			_ = syscall.Kill(-pid, syscall.SIGTERM)
			time.AfterFunc(killGracePeriod, func() {
				_ = syscall.Kill(-pid, syscall.SIGKILL)
			})
		})
	}

	waitDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = syscall.Kill(-pid, syscall.SIGTERM)
		case <-waitDone:
		}
	}()

	waitErr := cmd.Wait()
	close(waitDone)
	if timer != nil {
		timer.Stop()
	}
	rec.FinishedAt = time.Now()

	// The exit code must come from the wait call itself. Signal deaths map
	// to 128+signal, matching shell conventions.
	exitCode := 0
	var status syscall.WaitStatus
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			status, _ = exitErr.Sys().(syscall.WaitStatus)
			if status.Signaled() {
				exitCode = 128 + int(status.Signal())
			} else {
				exitCode = exitErr.ExitCode()
			}
		} else {
			exitCode = -1
		}
	}

	// Flush partial lines before counting.
	if err := set.Close(); err != nil {
		log.Printf("[wrapper] WARN: failed to close artifacts: %v", err)
	}

	rec.ExitCode = exitCode
	rec.StdoutLines = set.Stdout.Lines()
	rec.StderrLines = set.Stderr.Lines()
	rec.Reason = determineExitReason(exitCode, status, timedOut.Load())
	if exitCode == 0 {
		w.state = StateSuccess
	} else {
		w.state = StateFailed
	}
	rec.State = w.state

	set.RemoveErrorIfEmpty()

	var lastErrors []string
	if exitCode != 0 {
		lastErrors = lastErrorLines(set.ErrorPath, lastErrorCount)
	}
	if err := writeSummaryResult(summary, rec, lastErrors); err != nil {
		log.Printf("[wrapper] WARN: failed to write summary result: %v", err)
	}
	summary.Close()

	if !w.opts.Silent {
		fmt.Fprintf(os.Stdout, "%s: %s (duration %s, exit code %d)\n",
			rec.Name, rec.Status(), FormatDuration(rec.Duration()), rec.ExitCode)
	}

	return rec, nil
}

func effectiveWorkDir(dir string) string {
	if dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
