// Package metrics provides centralized Prometheus metrics for the
// summarization pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track summarization request patterns and performance.
var (
	// SummarizeRequestsTotal counts summarization requests by source type,
	// classified category, selected model, and outcome.
	SummarizeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsum_requests_total",
			Help: "Total number of summarization requests",
		},
		[]string{"source_type", "category", "model", "status"},
	)

	// StageDuration measures per-stage pipeline latency. Stages:
	// extract, classify, select, infer, format.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docsum_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	// ChunksPerRequest tracks how many chunks the inference engine produced
	// for each request. A spike indicates documents outgrowing the
	// selected model budgets.
	ChunksPerRequest = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docsum_chunks_per_request",
			Help:    "Number of chunks per summarization request",
			Buckets: []float64{1, 2, 3, 5, 8, 12, 20},
		},
	)

	// DegradedChunksTotal counts chunks that fell back to a truncated
	// excerpt after exhausting inference retries. Nonzero values mean
	// summaries with degraded provenance were served.
	DegradedChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docsum_degraded_chunks_total",
			Help: "Total number of chunks degraded to verbatim excerpts",
		},
	)

	// InputTokens tracks the estimated token length of input documents.
	InputTokens = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docsum_input_tokens",
			Help:    "Estimated token count of input documents",
			Buckets: prometheus.ExponentialBuckets(128, 2, 10),
		},
	)

	// ExtractionErrorsTotal counts extraction failures by error code.
	ExtractionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsum_extraction_errors_total",
			Help: "Total number of extraction failures by error code",
		},
		[]string{"source_type", "code"},
	)
)
