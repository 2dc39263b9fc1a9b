package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/runwrap/runwrap/internal/wrapper"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	rec := &wrapper.Record{
		Prefix:      "backup",
		Tag:         "nightly",
		ExitCode:    3,
		StartedAt:   started,
		FinishedAt:  started.Add(90 * time.Second),
		StdoutLines: 12,
		StderrLines: 2,
	}

	if err := Write(dir, rec); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "backup.prom"))
	if err != nil {
		t.Fatalf("Failed to read metrics file: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		`runwrap_last_run_exit_code{prefix="backup",tag="nightly"} 3`,
		`runwrap_last_run_duration_seconds{prefix="backup",tag="nightly"} 90`,
		`runwrap_last_run_output_lines{prefix="backup",tag="nightly"} 12`,
		`runwrap_last_run_error_lines{prefix="backup",tag="nightly"} 2`,
		"runwrap_last_run_completion_timestamp_seconds",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Metrics output missing %q:\n%s", want, content)
		}
	}

	// No leftover temp files from the atomic rename.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read metrics dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the renamed file, found %d entries", len(entries))
	}
}

func TestWrite_NoTag(t *testing.T) {
	dir := t.TempDir()
	rec := &wrapper.Record{Prefix: "job", ExitCode: 0}

	if err := Write(dir, rec); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "job.prom"))
	if err != nil {
		t.Fatalf("Failed to read metrics file: %v", err)
	}
	if !strings.Contains(string(data), `runwrap_last_run_exit_code{prefix="job"} 0`) {
		t.Errorf("Expected tag-less labels:\n%s", data)
	}
}
