package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const summaryExt = ".summary"

// Execution is one past invocation, reconstructed from its summary
// artifact.
type Execution struct {
	Name        string   `json:"name"`
	Command     string   `json:"command"`
	WorkingDir  string   `json:"working_dir,omitempty"`
	User        string   `json:"user,omitempty"`
	Host        string   `json:"host,omitempty"`
	InvokedAt   string   `json:"invoked_at,omitempty"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	ExitCode    int      `json:"exit_code"`
	Status      string   `json:"status"`
	OutputLines int      `json:"output_lines"`
	ErrorLines  int      `json:"error_lines"`
	OutputLog   string   `json:"output_log,omitempty"`
	ErrorLog    string   `json:"error_log,omitempty"`
	SummaryPath string   `json:"summary_path"`
	LastErrors  []string `json:"last_errors,omitempty"`
}

// Scan reads the summary artifacts under dir, newest first. prefix filters
// by artifact prefix (any tag); limit caps the result when > 0. A missing
// directory yields an empty history, not an error.
func Scan(dir, prefix string, limit int) ([]Execution, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log directory %s: %w", dir, err)
	}

	var executions []Execution
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), summaryExt) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Name(), prefix+"_") {
			continue
		}
		exec, err := ParseSummary(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Partial or foreign summaries are skipped, not fatal.
			continue
		}
		executions = append(executions, exec)
	}

	// Artifact names end in YYYYMMDD_HHMMSS, so the embedded timestamp
	// sorts lexicographically.
	sort.Slice(executions, func(i, j int) bool {
		return nameTimestamp(executions[i].Name) > nameTimestamp(executions[j].Name)
	})

	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}
	return executions, nil
}

// Find returns the execution with the given artifact name.
func Find(dir, name string) (Execution, error) {
	path := filepath.Join(dir, name+summaryExt)
	return ParseSummary(path)
}

// ParseSummary reads one summary artifact back into an Execution.
func ParseSummary(path string) (Execution, error) {
	f, err := os.Open(path)
	if err != nil {
		return Execution{}, err
	}
	defer f.Close()

	exec := Execution{SummaryPath: path}
	inErrors := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if inErrors {
			if line != "" {
				exec.LastErrors = append(exec.LastErrors, line)
			}
			continue
		}
		if line == "Last Error Lines:" {
			inErrors = true
			continue
		}

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch key {
		case "Name":
			exec.Name = value
		case "Command":
			exec.Command = value
		case "Working Dir":
			exec.WorkingDir = value
		case "User":
			exec.User = value
		case "Host":
			exec.Host = value
		case "Invoked At":
			exec.InvokedAt = value
		case "Start Time":
			exec.StartTime = value
		case "End Time":
			exec.EndTime = value
		case "Duration":
			exec.Duration = value
		case "Exit Code":
			exec.ExitCode, _ = strconv.Atoi(value)
		case "Output Lines":
			exec.OutputLines, _ = strconv.Atoi(value)
		case "Error Lines":
			exec.ErrorLines, _ = strconv.Atoi(value)
		case "Status":
			exec.Status = value
		case "Output Log":
			exec.OutputLog = value
		case "Error Log":
			exec.ErrorLog = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Execution{}, err
	}

	if exec.Name == "" {
		return Execution{}, fmt.Errorf("not a runwrap summary: %s", path)
	}
	return exec, nil
}

// nameTimestamp extracts the trailing YYYYMMDD_HHMMSS portion of an
// artifact name for ordering.
func nameTimestamp(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return name
	}
	return parts[len(parts)-2] + "_" + parts[len(parts)-1]
}
