// Package metrics exposes Prometheus metrics for training and inference.
//
// Everything is registered on Registry rather than the global default so the
// HTTP server only publishes what this program records.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommendation outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeInvalid       = "invalid_request"
	OutcomeUnknownLabel  = "unknown_label"
	OutcomeUnknownCareer = "unknown_career"
	OutcomeModelMismatch = "model_mismatch"
	OutcomeInternalError = "error"
)

var (
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// RecommendationsTotal counts recommendation requests by outcome.
	RecommendationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// PredictedLabelsTotal counts predicted career labels.
	PredictedLabelsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_predicted_labels_total",
			Help: "Total number of predictions per career label",
		},
		[]string{"label"},
	)

	// RecommendationDuration tracks the latency of a single recommendation.
	RecommendationDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "career_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	// TrainingRowsSkipped counts malformed rows dropped while training.
	TrainingRowsSkipped = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "career_training_rows_skipped_total",
			Help: "Total number of malformed training rows skipped",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordRecommendation records one recommendation outcome. label is empty
// unless a prediction was made.
func RecordRecommendation(outcome, label string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if label != "" {
		PredictedLabelsTotal.WithLabelValues(label).Inc()
	}
}

func RecordSkippedRows(n int) {
	if n > 0 {
		TrainingRowsSkipped.Add(float64(n))
	}
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
