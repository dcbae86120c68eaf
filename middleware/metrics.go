package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// Metrics records handler duration and outcome with the global
// MeterProvider.
//
// Instruments:
//   - aiworker.handler.duration (Float64Histogram, seconds)
//   - aiworker.handler.calls (Int64Counter)
//
// Both carry the attributes queue and status ("ok" or "error").
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(instrumentationName))
}

// MetricsWithMeter is Metrics with an explicit meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// The OTel API hands back noop instruments alongside any error.
	duration, _ := meter.Float64Histogram(
		"aiworker.handler.duration",
		metric.WithDescription("Time spent in job handlers"),
		metric.WithUnit("s"),
	)
	calls, _ := meter.Int64Counter(
		"aiworker.handler.calls",
		metric.WithDescription("Number of job handler invocations"),
		metric.WithUnit("{call}"),
	)

	return func(ctx context.Context, j *job.Job, next Handler) error {
		start := time.Now()
		err := next(ctx)

		status := "ok"
		if err != nil {
			status = "error"
		}
		attrs := metric.WithAttributes(
			attribute.String("queue", j.Queue),
			attribute.String("status", status),
		)
		duration.Record(ctx, time.Since(start).Seconds(), attrs)
		calls.Add(ctx, 1, attrs)
		return err
	}
}
