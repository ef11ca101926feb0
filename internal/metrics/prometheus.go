// Package metrics collects run metrics for the orchestration patterns:
// prometheus counters for job outcomes, and point-in-time runtime memory
// snapshots for verbose run summaries.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for one application instance.
// A private registry is used so that concurrent instances (and tests) do
// not collide on the default global registry. A nil *Metrics is valid and
// all recording methods are no-ops on it.
type Metrics struct {
	registry *prometheus.Registry

	jobsSucceeded *prometheus.CounterVec
	jobsFailed    *prometheus.CounterVec
	retries       *prometheus.CounterVec
	timeouts      *prometheus.CounterVec
	cancellations *prometheus.CounterVec
}

// New creates a Metrics instance backed by a fresh private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		jobsSucceeded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobflow_jobs_succeeded_total",
			Help: "Number of jobs that settled successfully, by pattern.",
		}, []string{"pattern"}),
		jobsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobflow_jobs_failed_total",
			Help: "Number of jobs that settled in failure, by pattern.",
		}, []string{"pattern"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobflow_retries_total",
			Help: "Number of retry attempts consumed, by pattern.",
		}, []string{"pattern"}),
		timeouts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobflow_timeouts_total",
			Help: "Number of races where the deadline beat the job, by pattern.",
		}, []string{"pattern"}),
		cancellations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobflow_cancellations_total",
			Help: "Number of jobs that observed an abort signal mid-wait, by pattern.",
		}, []string{"pattern"}),
	}
}

// JobSucceeded records a successful job settlement.
func (m *Metrics) JobSucceeded(pattern string) {
	if m == nil {
		return
	}
	m.jobsSucceeded.WithLabelValues(pattern).Inc()
}

// JobFailed records a failed job settlement.
func (m *Metrics) JobFailed(pattern string) {
	if m == nil {
		return
	}
	m.jobsFailed.WithLabelValues(pattern).Inc()
}

// RetryAttempted records one consumed retry.
func (m *Metrics) RetryAttempted(pattern string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(pattern).Inc()
}

// Timeout records a race lost to the deadline.
func (m *Metrics) Timeout(pattern string) {
	if m == nil {
		return
	}
	m.timeouts.WithLabelValues(pattern).Inc()
}

// Cancellation records a cooperative cancellation.
func (m *Metrics) Cancellation(pattern string) {
	if m == nil {
		return
	}
	m.cancellations.WithLabelValues(pattern).Inc()
}

// Registry exposes the underlying registry, e.g. for serving /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteSummary writes a plain-text dump of all gathered counter values to
// w. Used by the CLI in verbose mode instead of running an HTTP endpoint.
func (m *Metrics) WriteSummary(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			label := ""
			for _, pair := range metric.GetLabel() {
				label += fmt.Sprintf(" %s=%s", pair.GetName(), pair.GetValue())
			}
			fmt.Fprintf(w, "%s%s %g\n", family.GetName(), label, metric.GetCounter().GetValue())
		}
	}
	return nil
}
