// Package metrics exposes Prometheus counters for form and listing events.
//
// Counters are registered on a caller-supplied registry rather than the
// global default, so every session and every test gets its own set.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "signup"

// Metrics holds the counters for one process.
type Metrics struct {
	registry *prometheus.Registry

	Submissions   *prometheus.CounterVec
	Deleted       prometheus.Counter
	Clears        *prometheus.CounterVec
	Renders       prometheus.Counter
	StorageErrors *prometheus.CounterVec
}

// New registers every counter on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers every counter on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		Deleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Records removed, individually or by delete-all.",
		}),
		Clears: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_clears_total",
			Help:      "Form clear requests by outcome.",
		}, []string{"outcome"}),
		Renders: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_renders_total",
			Help:      "Times the saved-record listing was fetched and redrawn.",
		}),
		StorageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Record store failures by operation.",
		}, []string{"op"}),
	}
}

// Registry returns the registry the counters live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSubmit counts a submission outcome.
func (m *Metrics) ObserveSubmit(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveClear counts a clear outcome.
func (m *Metrics) ObserveClear(outcome string) {
	m.Clears.WithLabelValues(outcome).Inc()
}

// ObserveDeleted adds n removed records.
func (m *Metrics) ObserveDeleted(n int) {
	if n > 0 {
		m.Deleted.Add(float64(n))
	}
}

// ObserveRender counts a listing redraw.
func (m *Metrics) ObserveRender() {
	m.Renders.Inc()
}

// ObserveStorageError counts a failed store operation.
func (m *Metrics) ObserveStorageError(op string) {
	m.StorageErrors.WithLabelValues(op).Inc()
}

// WriteTextfile writes every counter in the text exposition format, for the
// node_exporter textfile collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
