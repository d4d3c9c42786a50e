package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "improver_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// ImproveDuration tracks generation latency per model.
	ImproveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "improver_improve_duration_seconds",
		Help:    "Time spent waiting on the generation backend.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"model"})

	// InputChars tracks the distribution of submitted code lengths.
	InputChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "improver_input_chars",
		Help:    "Number of characters in submitted code.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000},
	})

	// ImproveResults counts finished improvement requests by outcome.
	ImproveResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "improver_improve_results_total",
		Help: "Improvement requests by outcome.",
	}, []string{"outcome"})
)
