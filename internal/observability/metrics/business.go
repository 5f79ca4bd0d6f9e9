package metrics

import "time"

// RecordSummarizeRequest records the outcome of one summarization request.
func RecordSummarizeRequest(sourceType, category, model string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	SummarizeRequestsTotal.WithLabelValues(sourceType, category, model, status).Inc()
}

// RecordStageDuration records the time spent in one pipeline stage.
// Stage is one of: extract, classify, select, infer, format.
func RecordStageDuration(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordChunks records the chunk fan-out of a request and how many of those
// chunks degraded to excerpts.
func RecordChunks(total, degraded int) {
	ChunksPerRequest.Observe(float64(total))
	if degraded > 0 {
		DegradedChunksTotal.Add(float64(degraded))
	}
}

// RecordInputTokens records the estimated token length of an input document.
func RecordInputTokens(tokens int) {
	InputTokens.Observe(float64(tokens))
}

// RecordExtractionError records an extraction failure with its stable code.
func RecordExtractionError(sourceType, code string) {
	ExtractionErrorsTotal.WithLabelValues(sourceType, code).Inc()
}
