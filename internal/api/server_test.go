package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeSummary(t *testing.T, dir, name, status string, exitCode int) {
	t.Helper()
	content := fmt.Sprintf(`Execution Summary
=================
Name: %s
Command: sh -c true
Invoked At: 2026-08-30 10:00:00

Start Time: 2026-08-30 10:00:00
End Time: 2026-08-30 10:00:01
Duration: 00:00:01
Exit Code: %d
Output Lines: 1
Error Lines: 0
Status: %s
`, name, exitCode, status)
	if err := os.WriteFile(filepath.Join(dir, name+".summary"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write summary: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	server := NewServer(t.TempDir())
	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestListExecutions(t *testing.T) {
	dir := t.TempDir()
	writeSummary(t, dir, "backup_20260830_100000", "SUCCESS", 0)
	writeSummary(t, dir, "restore_20260830_110000", "FAILED", 2)
	server := NewServer(dir)

	req := httptest.NewRequest("GET", "/executions", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result struct {
		Executions []struct {
			Name     string `json:"name"`
			Status   string `json:"status"`
			ExitCode int    `json:"exit_code"`
		} `json:"executions"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("Expected 2 executions, got %d", result.Count)
	}
	// Newest first.
	if result.Executions[0].Name != "restore_20260830_110000" {
		t.Errorf("Expected restore first, got %s", result.Executions[0].Name)
	}
}

func TestListExecutions_PrefixFilter(t *testing.T) {
	dir := t.TempDir()
	writeSummary(t, dir, "backup_20260830_100000", "SUCCESS", 0)
	writeSummary(t, dir, "restore_20260830_110000", "FAILED", 2)
	server := NewServer(dir)

	req := httptest.NewRequest("GET", "/executions?prefix=backup", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	var result struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("Expected 1 execution, got %d", result.Count)
	}
}

func TestListExecutions_BadLimit(t *testing.T) {
	server := NewServer(t.TempDir())
	req := httptest.NewRequest("GET", "/executions?limit=banana", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestGetExecution(t *testing.T) {
	dir := t.TempDir()
	writeSummary(t, dir, "backup_20260830_100000", "SUCCESS", 0)
	server := NewServer(dir)

	req := httptest.NewRequest("GET", "/executions/backup_20260830_100000", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var exec struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &exec); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if exec.Name != "backup_20260830_100000" || exec.Status != "SUCCESS" {
		t.Errorf("Unexpected execution: %+v", exec)
	}
}

func TestGetExecution_NotFound(t *testing.T) {
	server := NewServer(t.TempDir())
	req := httptest.NewRequest("GET", "/executions/ghost_20260830_100000", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}
