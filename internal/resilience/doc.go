// Package resilience groups reliability patterns used around external calls:
// retry with exponential backoff (retry) and circuit breaking (circuitbreaker).
// Inference backends and the transcript fetcher compose both.
package resilience
