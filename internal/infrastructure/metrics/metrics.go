package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Souvenir-API Metrics
var (
	// Handled events, by entry point ("lambda" or "http") and response status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "souvenir",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of handled requests",
		},
		[]string{"source", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "souvenir",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	// Bedrock InvokeModel counter
	ModelInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "souvenir",
			Subsystem: "api",
			Name:      "model_invocations_total",
			Help:      "Total Bedrock InvokeModel calls",
		},
		[]string{"model_id", "status"},
	)

	// Bedrock InvokeModel duration
	ModelInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "souvenir",
			Subsystem: "api",
			Name:      "model_invocation_duration_seconds",
			Help:      "Bedrock InvokeModel duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"model_id"},
	)
)

// RecordRequest records a handled request
func RecordRequest(source, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(source, status).Inc()
	RequestDuration.WithLabelValues(source).Observe(durationSec)
}

// RecordModelInvocation records a Bedrock call
func RecordModelInvocation(modelID, status string, durationSec float64) {
	ModelInvocationsTotal.WithLabelValues(modelID, status).Inc()
	ModelInvocationDuration.WithLabelValues(modelID).Observe(durationSec)
}
