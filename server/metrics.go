package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics groups the collectors of a server. Each server registers them on its own registry.
type metrics struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	rows      prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		// requests counts analysis requests by endpoint and outcome (ok, error, bad_request)
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booltrainer_requests_total",
			Help: "Total analysis requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		// durations tracks the time spent serving analysis requests
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "booltrainer_request_duration_seconds",
			Help:    "Analysis request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"endpoint"}),

		// rows counts the truth table rows computed
		rows: factory.NewCounter(prometheus.CounterOpts{
			Name: "booltrainer_table_rows_total",
			Help: "Total truth table rows computed",
		}),
	}
}
