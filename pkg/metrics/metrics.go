// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exposes Prometheus instrumentation for the pass
// pipeline, mirroring the teacher's promhttp.Handler() wiring in
// cmd/cie/index.go: a histogram of per-pass durations and a counter of
// diagnostics reported, both labeled by pass name.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline's Prometheus collectors, registered against
// a private registry so a CLI invocation never collides with another
// library consumer's default registry.
type Metrics struct {
	Registry       *prometheus.Registry
	PassDuration   *prometheus.HistogramVec
	Diagnostics    *prometheus.CounterVec
	PipelineRuns   prometheus.Counter
	PipelineStops  *prometheus.CounterVec
}

// New constructs and registers the pipeline's collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	passDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tmplc",
		Subsystem: "pass",
		Name:      "duration_seconds",
		Help:      "Wall-clock duration of one pass invocation, labeled by pass name and phase.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pass", "phase"})

	diagnostics := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tmplc",
		Subsystem: "diag",
		Name:      "reported_total",
		Help:      "Diagnostics reported, labeled by the reporting pass and diagnostic kind.",
	}, []string{"pass", "kind"})

	pipelineRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tmplc",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Total number of pipeline invocations.",
	})

	pipelineStops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tmplc",
		Subsystem: "pipeline",
		Name:      "stopped_total",
		Help:      "Pipeline invocations that terminated early via a continuation rule or a STOP return, labeled by the pass they stopped at.",
	}, []string{"pass"})

	reg.MustRegister(passDuration, diagnostics, pipelineRuns, pipelineStops)

	return &Metrics{
		Registry:      reg,
		PassDuration:  passDuration,
		Diagnostics:   diagnostics,
		PipelineRuns:  pipelineRuns,
		PipelineStops: pipelineStops,
	}
}

// ObservePass records one pass invocation's duration.
func (m *Metrics) ObservePass(name, phase string, d time.Duration) {
	m.PassDuration.WithLabelValues(name, phase).Observe(d.Seconds())
}

// ObserveDiagnostic increments the counter for one reported diagnostic.
func (m *Metrics) ObserveDiagnostic(pass, kind string) {
	m.Diagnostics.WithLabelValues(pass, kind).Inc()
}

// ObserveRun records one pipeline invocation, and — if it stopped early —
// which pass it stopped at.
func (m *Metrics) ObserveRun(stopped bool, stoppedAt string) {
	m.PipelineRuns.Inc()
	if stopped {
		m.PipelineStops.WithLabelValues(stoppedAt).Inc()
	}
}
