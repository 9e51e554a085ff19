// Package metrics keeps bridge counters and writes them in the Prometheus
// textfile format, for node_exporter's textfile collector.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jxwalker/modman/internal/config"
)

// Manager is nil when metrics are disabled; every method is a no-op on nil.
type Manager struct {
	path string
	reg  *prometheus.Registry

	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
	lastCall prometheus.Gauge
	written  prometheus.Gauge
}

func New(cfg *config.Config) *Manager {
	if cfg == nil || !cfg.Metrics.PrometheusTextfile.Enabled || cfg.Metrics.PrometheusTextfile.Path == "" {
		return nil
	}
	p := cfg.Metrics.PrometheusTextfile.Path
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	return NewAt(p)
}

// NewAt writes to path regardless of config. Each manager has its own
// registry, so several can coexist in one process.
func NewAt(path string) *Manager {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Manager{
		path: path,
		reg:  reg,
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "modman_bridge_calls_total",
			Help: "Backend calls by method.",
		}, []string{"method"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "modman_bridge_call_failures_total",
			Help: "Backend calls that returned an error.",
		}, []string{"method"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "modman_bridge_call_duration_seconds",
			Help:    "Backend call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "modman_bridge_events_total",
			Help: "Events received from the backend.",
		}, []string{"event"}),
		lastCall: f.NewGauge(prometheus.GaugeOpts{
			Name: "modman_last_call_seconds",
			Help: "Duration of the last backend call in seconds.",
		}),
		written: f.NewGauge(prometheus.GaugeOpts{
			Name: "modman_metrics_timestamp_seconds",
			Help: "UNIX timestamp when this file was written.",
		}),
	}
}

// ObserveCall records one finished backend call.
func (m *Manager) ObserveCall(method string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(method).Inc()
	if err != nil {
		m.failures.WithLabelValues(method).Inc()
	}
	m.duration.WithLabelValues(method).Observe(d.Seconds())
	m.lastCall.Set(d.Seconds())
}

func (m *Manager) IncEvent(name string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(name).Inc()
}

// Write replaces the textfile atomically.
func (m *Manager) Write() error {
	if m == nil {
		return nil
	}
	m.written.SetToCurrentTime()
	return prometheus.WriteToTextfile(m.path, m.reg)
}
