package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/runwrap/runwrap/internal/wrapper"
)

// Write renders last-run metrics for the node_exporter textfile collector
// as {prefix}.prom under dir. The file is written to a temporary name and
// renamed so scrapers never observe a partial file.
func Write(dir string, rec *wrapper.Record) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory %s: %w", dir, err)
	}

	labels := prometheus.Labels{"prefix": rec.Prefix}
	if rec.Tag != "" {
		labels["tag"] = rec.Tag
	}

	exitCode := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "runwrap_last_run_exit_code",
		Help:        "Exit code of the most recent wrapped run.",
		ConstLabels: labels,
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "runwrap_last_run_duration_seconds",
		Help:        "Wall-clock duration of the most recent wrapped run.",
		ConstLabels: labels,
	})
	outputLines := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "runwrap_last_run_output_lines",
		Help:        "Stdout lines captured during the most recent wrapped run.",
		ConstLabels: labels,
	})
	errorLines := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "runwrap_last_run_error_lines",
		Help:        "Stderr lines captured during the most recent wrapped run.",
		ConstLabels: labels,
	})
	completed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "runwrap_last_run_completion_timestamp_seconds",
		Help:        "Unix time the most recent wrapped run finished.",
		ConstLabels: labels,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(exitCode, duration, outputLines, errorLines, completed)

	exitCode.Set(float64(rec.ExitCode))
	duration.Set(rec.Duration().Seconds())
	outputLines.Set(float64(rec.StdoutLines))
	errorLines.Set(float64(rec.StderrLines))
	completed.Set(float64(rec.FinishedAt.Unix()))

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+rec.Prefix+".prom.*")
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(dir, rec.Prefix+".prom"))
}
