package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InferenceMetricsRecorder records per-model inference metrics. The
// interface keeps backends testable: unit tests inject a mock recorder
// instead of touching the global Prometheus registry.
type InferenceMetricsRecorder interface {
	// RecordDuration records the time one inference call took.
	RecordDuration(model string, duration time.Duration)

	// RecordOutputTokens records the estimated token length of a summary.
	RecordOutputTokens(model string, tokens int)

	// RecordFailure increments the failure counter for a model.
	RecordFailure(model string)

	// RecordInputTruncated increments the counter for inputs cut down to
	// fit the model's budget before the call.
	RecordInputTruncated(model string)
}

// PrometheusInferenceMetrics implements InferenceMetricsRecorder backed by
// Prometheus. All metrics carry a "model" label so one dashboard covers
// every registered backend.
type PrometheusInferenceMetrics struct {
	durationHistogram *prometheus.HistogramVec
	outputTokens      *prometheus.HistogramVec
	failureCounter    *prometheus.CounterVec
	truncatedCounter  *prometheus.CounterVec
}

var (
	inferenceMetricsInstance *PrometheusInferenceMetrics
	inferenceMetricsOnce     sync.Once
)

// getOrCreateHistogramVec registers a histogram vec, reusing an existing
// collector when one with the same name is already registered.
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// getOrCreateCounterVec registers a counter vec, reusing an existing
// collector when one with the same name is already registered.
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusInferenceMetrics creates the Prometheus-backed recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusInferenceMetrics() *PrometheusInferenceMetrics {
	inferenceMetricsOnce.Do(func() {
		inferenceMetricsInstance = &PrometheusInferenceMetrics{
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "docsum_inference_duration_seconds",
				Help:    "Time taken by a single model inference call",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"model"}),
			outputTokens: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "docsum_inference_output_tokens",
				Help:    "Estimated token length of generated summaries",
				Buckets: []float64{50, 100, 200, 300, 500, 750, 1000, 1500},
			}, []string{"model"}),
			failureCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "docsum_inference_failures_total",
				Help: "Total inference calls that failed after retries",
			}, []string{"model"}),
			truncatedCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "docsum_inference_input_truncated_total",
				Help: "Total inputs truncated to fit the model's token budget",
			}, []string{"model"}),
		}
	})
	return inferenceMetricsInstance
}

// RecordDuration implements InferenceMetricsRecorder.
func (p *PrometheusInferenceMetrics) RecordDuration(model string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordOutputTokens implements InferenceMetricsRecorder.
func (p *PrometheusInferenceMetrics) RecordOutputTokens(model string, tokens int) {
	p.outputTokens.WithLabelValues(model).Observe(float64(tokens))
}

// RecordFailure implements InferenceMetricsRecorder.
func (p *PrometheusInferenceMetrics) RecordFailure(model string) {
	p.failureCounter.WithLabelValues(model).Inc()
}

// RecordInputTruncated implements InferenceMetricsRecorder.
func (p *PrometheusInferenceMetrics) RecordInputTruncated(model string) {
	p.truncatedCounter.WithLabelValues(model).Inc()
}
