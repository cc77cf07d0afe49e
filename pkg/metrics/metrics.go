// Package metrics exposes Prometheus counters for installation runs.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "packdrop"

// Metrics holds the collectors of one process
type Metrics struct {
	registry *prometheus.Registry

	files       *prometheus.CounterVec
	bytesCopied prometheus.Counter
	dirsCreated prometheus.Counter
	interrupts  prometheus.Counter
	staleDelete prometheus.Counter
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_total",
				Help:      "Pack files processed, by outcome",
			},
			[]string{"outcome"},
		),
		bytesCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_copied_total",
			Help:      "Bytes copied from the payload",
		}),
		dirsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directories_created_total",
			Help:      "Directories created under installation roots",
		}),
		interrupts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interrupts_total",
			Help:      "Runs that acknowledged an interrupt",
		}),
		staleDelete: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_deleted_total",
			Help:      "Stale files and directories deleted by update checks",
		}),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Completed runs, by status",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of installation runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.files,
		m.bytesCopied,
		m.dirsCreated,
		m.interrupts,
		m.staleDelete,
		m.runs,
		m.runDuration,
	)
	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// FileOutcome counts one processed pack file
func (m *Metrics) FileOutcome(outcome string) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(outcome).Inc()
}

// BytesCopied adds n copied bytes
func (m *Metrics) BytesCopied(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesCopied.Add(float64(n))
}

// DirCreated counts one created directory
func (m *Metrics) DirCreated() {
	if m == nil {
		return
	}
	m.dirsCreated.Inc()
}

// Interrupted counts one acknowledged interrupt
func (m *Metrics) Interrupted() {
	if m == nil {
		return
	}
	m.interrupts.Inc()
}

// StaleDeleted adds n deleted stale entries
func (m *Metrics) StaleDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.staleDelete.Add(float64(n))
}

// RunFinished records a run's status and duration
func (m *Metrics) RunFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
