// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records detection counters and latencies in a private
// Prometheus registry. A batch run writes the registry to a textfile for the
// node exporter's textfile collector instead of serving it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Semantic call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeSkipped     = "skipped"
	OutcomeDisabled    = "disabled"
	OutcomeUnavailable = "unavailable"
)

// Recorder owns the registry and the collectors registered in it.
// All methods are safe to call on a nil *Recorder.
type Recorder struct {
	registry *prometheus.Registry

	documents       *prometheus.CounterVec
	semanticCalls   *prometheus.CounterVec
	semanticLatency *prometheus.HistogramVec
	confidence      prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "privscan_documents_total",
				Help: "Documents evaluated, by verdict",
			},
			[]string{"verdict"},
		),
		semanticCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "privscan_semantic_calls_total",
				Help: "Semantic stage outcomes, by provider",
			},
			[]string{"provider", "outcome"},
		),
		semanticLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "privscan_semantic_duration_seconds",
				Help:    "Latency of semantic provider calls",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
			},
			[]string{"provider"},
		),
		confidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "privscan_confidence",
				Help:    "Aggregate privilege confidence per document",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}

	r.registry.MustRegister(r.documents, r.semanticCalls, r.semanticLatency, r.confidence)
	return r
}

// Registry exposes the underlying registry as a Gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveDocument counts one verdict and records its confidence.
func (r *Recorder) ObserveDocument(privileged bool, confidence float64) {
	if r == nil {
		return
	}
	verdict := "non_privileged"
	if privileged {
		verdict = "privileged"
	}
	r.documents.WithLabelValues(verdict).Inc()
	r.confidence.Observe(confidence)
}

// ObserveSemantic counts one semantic stage outcome. Latency is recorded only
// for calls that reached the provider (ok or error).
func (r *Recorder) ObserveSemantic(provider, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.semanticCalls.WithLabelValues(provider, outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeError {
		r.semanticLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

// WriteTextfile writes the registry in the Prometheus text format, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
