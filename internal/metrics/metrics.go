package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_risk_predictions_total",
			Help: "Total number of completed predictions by verdict",
		},
		[]string{"verdict"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_risk_prediction_failures_total",
			Help: "Total number of failed predictions by reason",
		},
		[]string{"reason"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_risk_prediction_duration_seconds",
			Help:    "Duration of encode, score and interpret in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
	)

	ProbabilityUnavailable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_risk_probability_unavailable_total",
			Help: "Predictions reported without a probability of the good class",
		},
	)

	HistoryWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_risk_history_write_failures_total",
			Help: "Predictions that could not be stored in the history table",
		},
	)
)
