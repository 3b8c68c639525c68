package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const namespace = "digestagg"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder holds the Prometheus metrics of one process. Each Recorder owns
// its registry, so tests can create as many as they like.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	digests  *prometheus.CounterVec
}

// NewRecorder creates a Recorder with the aggregation metrics and the Go
// runtime collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Number of aggregation calls by strategy and outcome.",
		}, []string{"strategy", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Wall-clock duration of aggregation calls.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"strategy"}),
		digests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_aggregated_total",
			Help:      "Number of digests consumed by successful aggregation calls.",
		}, []string{"strategy"}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.digests, collectors.NewGoCollector())
	return r
}

// Observe records one aggregation call.
func (r *Recorder) Observe(strategy string, digests int, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.runs.WithLabelValues(strategy, status).Inc()
	r.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	if err == nil {
		r.digests.WithLabelValues(strategy).Add(float64(digests))
	}
}

// Runs returns the call counter of one strategy and status, for inspection.
func (r *Recorder) Runs(strategy, status string) prometheus.Counter {
	return r.runs.WithLabelValues(strategy, status)
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
