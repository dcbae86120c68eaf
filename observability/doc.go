// Package observability records consumer lifecycle counters through
// OpenTelemetry. Register a [MetricsExtension] with the consumer to count
// claimed, completed, failed and dropped jobs per queue.
//
// Per-call handler spans and durations live in the middleware package.
package observability
