// Package metrics records how streaming requests behave across attempts:
// what each attempt produced, why retries happened and how requests ended.
//
// A nil *Recorder is valid and records nothing, so library code never has
// to check whether metrics are enabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "grok_search"

// Recorder holds the prometheus collectors for one registry.
type Recorder struct {
	attempts *prometheus.CounterVec
	retries  *prometheus.CounterVec
	results  *prometheus.CounterVec
	backoff  *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Streaming attempts by operation and outcome.",
		}, []string{"operation", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Retries scheduled by operation and the outcome that caused them.",
		}, []string{"operation", "outcome"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Logical requests by operation and final result.",
		}, []string{"operation", "result"}),
		backoff: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backoff_seconds",
			Help:      "Delay slept before a retry.",
			Buckets:   []float64{0, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"operation"}),
	}
	reg.MustRegister(r.attempts, r.retries, r.results, r.backoff)
	return r
}

// ObserveAttempt counts one finished attempt.
func (r *Recorder) ObserveAttempt(operation, outcome string) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(operation, outcome).Inc()
}

// ObserveRetry counts one scheduled retry and the delay before it.
func (r *Recorder) ObserveRetry(operation, outcome string, delay time.Duration) {
	if r == nil {
		return
	}
	r.retries.WithLabelValues(operation, outcome).Inc()
	r.backoff.WithLabelValues(operation).Observe(delay.Seconds())
}

// ObserveResult counts one finished logical request. result is one of
// "content", "empty" or "error".
func (r *Recorder) ObserveResult(operation, result string) {
	if r == nil {
		return
	}
	r.results.WithLabelValues(operation, result).Inc()
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
