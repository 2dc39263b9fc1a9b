package wrapper

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/runwrap/runwrap/internal/sysinfo"
)

// lastErrorCount is how many trailing stderr lines a failure summary carries.
const lastErrorCount = 10

// Record is the execution record for one invocation. It is created when the
// invocation starts, finalized when the process exits, and never mutated
// afterward.
type Record struct {
	Name        string
	Prefix      string
	Tag         string
	Command     string
	WorkDir     string
	User        string
	Hostname    string
	InvokedAt   time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	ExitCode    int
	State       State
	Reason      ExitReason
	StdoutLines int
	StderrLines int
	OutputPath  string
	ErrorPath   string
	SummaryPath string
}

// Duration returns the wall-clock delta between start and exit.
func (r *Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Status derives SUCCESS/FAILED from the exit code.
func (r *Record) Status() string {
	if r.ExitCode == 0 {
		return "SUCCESS"
	}
	return "FAILED"
}

// FormatDuration renders a duration as HH:MM:SS by integer division.
// Durations of a day or more keep counting hours; there is no day rollover.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// writeSummaryHeader persists the invocation metadata before the wrapped
// command starts, so a crashed wrapper still leaves a trace of what ran.
func writeSummaryHeader(w io.Writer, rec *Record, profile sysinfo.Profile) error {
	_, err := fmt.Fprintf(w, `Execution Summary
=================
Name: %s
Command: %s
Working Dir: %s
User: %s
Host: %s
System: %s
Output Log: %s
Error Log: %s
Invoked At: %s

`,
		rec.Name,
		rec.Command,
		rec.WorkDir,
		rec.User,
		rec.Hostname,
		profile.Describe(),
		rec.OutputPath,
		rec.ErrorPath,
		rec.InvokedAt.Format(timestampLayout),
	)
	return err
}

// writeSummaryResult appends the completion block. lastErrors carries the
// trailing timestamped stderr lines and is only set on failure.
func writeSummaryResult(w io.Writer, rec *Record, lastErrors []string) error {
	_, err := fmt.Fprintf(w, `Start Time: %s
End Time: %s
Duration: %s
Exit Code: %d
Exit Reason: %s
Output Lines: %d
Error Lines: %d
Status: %s
`,
		rec.StartedAt.Format(timestampLayout),
		rec.FinishedAt.Format(timestampLayout),
		FormatDuration(rec.Duration()),
		rec.ExitCode,
		rec.Reason,
		rec.StdoutLines,
		rec.StderrLines,
		rec.Status(),
	)
	if err != nil {
		return err
	}

	if len(lastErrors) > 0 {
		if _, err := fmt.Fprintf(w, "\nLast Error Lines:\n"); err != nil {
			return err
		}
		for _, line := range lastErrors {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// lastErrorLines reads the trailing n lines of the error artifact. Read
// failures degrade to an empty slice; the summary is still written.
func lastErrorLines(path string, n int) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var tail []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tail = append(tail, scanner.Text())
		if len(tail) > n {
			tail = tail[1:]
		}
	}
	return tail
}
