// Package metrics holds the Prometheus collectors of the salary predictor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction modes used as the "mode" label.
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_predictions_total",
			Help: "Total number of labels produced by the model",
		},
		[]string{"mode", "label"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_prediction_errors_total",
			Help: "Total number of failed predictions",
		},
		[]string{"mode", "reason"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "salary_prediction_duration_seconds",
			Help: "Duration of a prediction call in seconds",
		},
		[]string{"mode"},
	)

	BatchRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salary_batch_rows",
			Help:    "Number of rows per uploaded batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	StoredResults = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salary_stored_results",
			Help: "Number of batch results held for download",
		},
	)
)
