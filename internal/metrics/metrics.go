// Package metrics records validation run metrics with Prometheus and exports
// them in node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/organvm/fmlint/internal/validation"
)

const namespace = "fmlint"

// Document results.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Recorder holds the metrics for one run. A nil *Recorder is a no-op, so
// callers never need to check whether metrics are enabled.
type Recorder struct {
	registry *prometheus.Registry

	Documents  *prometheus.CounterVec
	Violations *prometheus.CounterVec
	Duration   prometheus.Histogram
}

// NewRecorder creates a Recorder on its own registry. Every violation kind
// starts at zero so exported files always carry the full series.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	r := &Recorder{
		registry: reg,
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents validated, by result",
		}, []string{"result"}),
		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Violations found, by kind",
		}, []string{"kind"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time to read and validate one document",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
	for _, kind := range validation.Kinds() {
		r.Violations.WithLabelValues(string(kind))
	}
	return r
}

// ObserveReport records one validated document.
func (r *Recorder) ObserveReport(report *validation.Report, elapsed time.Duration) {
	if r == nil || report == nil {
		return
	}
	result := ResultValid
	if !report.Valid() {
		result = ResultInvalid
	}
	r.Documents.WithLabelValues(result).Inc()
	for kind, n := range report.CountByKind() {
		r.Violations.WithLabelValues(string(kind)).Add(float64(n))
	}
	r.Duration.Observe(elapsed.Seconds())
}

// ObserveError records a document that could not be validated at all.
func (r *Recorder) ObserveError() {
	if r == nil {
		return
	}
	r.Documents.WithLabelValues(ResultError).Inc()
}

// WriteTextfile writes the current values to path for the node_exporter
// textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
