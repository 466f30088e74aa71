// Package observability holds the logging, metrics and request tracing
// shared by the HTTP server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration is HTTP request latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glucorisk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"route", "method", "status"},
	)

	// PredictionsTotal counts assessments by risk label.
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glucorisk_predictions_total",
			Help: "Total number of risk assessments by label",
		},
		[]string{"label"},
	)

	// ExplanationsUnavailable counts assessments rendered without a contribution chart.
	ExplanationsUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glucorisk_explanations_unavailable_total",
			Help: "Total number of assessments without a feature breakdown",
		},
		[]string{"reason"},
	)
)

// RecordAssessment updates the prediction counters for one assessment.
func RecordAssessment(label, explanationStatus string, explained bool) {
	PredictionsTotal.WithLabelValues(label).Inc()
	if !explained {
		ExplanationsUnavailable.WithLabelValues(explanationStatus).Inc()
	}
}
