// Package metrics exposes Prometheus instruments for outbound calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CallMetrics records outbound call counts, durations and concurrency. It satisfies
// rest.Recorder.
type CallMetrics struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	callsInFlight prometheus.Gauge
}

// NewCallMetrics registers the call instruments with reg. A nil reg uses the default
// registerer.
func NewCallMetrics(reg prometheus.Registerer) *CallMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &CallMetrics{
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restfacade_calls_total",
				Help: "Total number of outbound calls by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restfacade_call_duration_seconds",
				Help:    "Duration of outbound calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		callsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "restfacade_calls_in_flight",
				Help: "Number of outbound calls currently in progress",
			},
		),
	}
}

func (m *CallMetrics) CallStarted(string) {
	m.callsInFlight.Inc()
}

func (m *CallMetrics) CallFinished(method, outcome string, elapsed time.Duration) {
	m.callsInFlight.Dec()
	m.callDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	m.callsTotal.WithLabelValues(method, outcome).Inc()
}
