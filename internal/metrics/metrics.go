// Package metrics records per-run counters for sync and push.
//
// A CLI run is short-lived, so nothing is served over HTTP. When a metrics
// file is configured the registry is written in Prometheus text format for
// the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Recorder holds the metrics of one run. A nil *Recorder discards everything.
type Recorder struct {
	registry    *prometheus.Registry
	mappings    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mappings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dusk_warden_mappings_total",
				Help: "Secret mappings processed, by operation and result",
			},
			[]string{"operation", "result"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dusk_warden_failures_total",
				Help: "Run failures, by operation and error category",
			},
			[]string{"operation", "category"},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dusk_warden_run_duration_seconds",
				Help: "Wall-clock duration of the last run",
			},
			[]string{"operation"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dusk_warden_last_success_timestamp_seconds",
				Help: "Unix time of the last run that completed without error",
			},
			[]string{"operation"},
		),
	}
	r.registry.MustRegister(r.mappings, r.failures, r.duration, r.lastSuccess)
	return r
}

// Mapping counts one processed mapping.
func (r *Recorder) Mapping(operation, result string) {
	if r == nil {
		return
	}
	r.mappings.WithLabelValues(operation, result).Inc()
}

// Run records the outcome of a whole run. category is empty on success.
func (r *Recorder) Run(operation string, started time.Time, category string, failed bool) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(operation).Set(time.Since(started).Seconds())
	if failed {
		if category == "" {
			category = "other"
		}
		r.failures.WithLabelValues(operation, category).Inc()
		return
	}
	r.lastSuccess.WithLabelValues(operation).SetToCurrentTime()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
