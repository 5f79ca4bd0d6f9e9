// Package observability groups the cross-cutting observability concerns:
// structured logging (logging), Prometheus metrics (metrics), and
// OpenTelemetry tracing (tracing).
package observability
