package wrapper

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFormatDuration uses integer division; hours keep counting past 24.
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{61 * time.Second, "00:01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
		{48*time.Hour + 30*time.Minute, "48:30:00"},
		{999 * time.Millisecond, "00:00:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v): expected %s, got %s", tt.d, tt.want, got)
		}
	}
}

func TestRecordStatus(t *testing.T) {
	rec := &Record{ExitCode: 0}
	if rec.Status() != "SUCCESS" {
		t.Errorf("Expected SUCCESS for exit 0, got %s", rec.Status())
	}
	rec.ExitCode = 3
	if rec.Status() != "FAILED" {
		t.Errorf("Expected FAILED for exit 3, got %s", rec.Status())
	}
	rec.ExitCode = -1
	if rec.Status() != "FAILED" {
		t.Errorf("Expected FAILED for exit -1, got %s", rec.Status())
	}
}

// TestLastErrorLines keeps only the trailing n lines.
func TestLastErrorLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.err")
	content := ""
	for _, line := range []string{"one", "two", "three", "four"} {
		content += "[2026-08-30 10:00:00] " + line + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	tail := lastErrorLines(path, 2)
	if len(tail) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(tail))
	}
	if tail[0] != "[2026-08-30 10:00:00] three" || tail[1] != "[2026-08-30 10:00:00] four" {
		t.Errorf("Unexpected tail: %v", tail)
	}

	// Fewer lines than requested returns them all.
	tail = lastErrorLines(path, 10)
	if len(tail) != 4 {
		t.Errorf("Expected 4 lines, got %d", len(tail))
	}

	// Missing file degrades to empty.
	if tail := lastErrorLines(filepath.Join(t.TempDir(), "missing"), 10); tail != nil {
		t.Errorf("Expected nil for missing file, got %v", tail)
	}
}
