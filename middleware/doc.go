// Package middleware wraps job handler calls with cross-cutting behaviour.
//
// A [Middleware] receives the context, the claimed job and the next
// handler. [Chain] composes several; the first one listed runs outermost.
//
//	mw := middleware.Chain(
//	    middleware.Recover(logger),
//	    middleware.Logging(logger),
//	    middleware.Timeout(2*time.Minute),
//	)
//
// The consumer installs Recover and Logging unless told otherwise, so a
// panicking handler files its job as failed instead of killing the loop.
//
// Built-ins:
//   - [Recover] converts panics into a *[PanicError]
//   - [Logging] logs start, duration and outcome
//   - [Timeout] bounds the handler context
//   - [Tracing] opens an OpenTelemetry span per call
//   - [Metrics] records duration and call counters
package middleware
