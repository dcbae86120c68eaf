package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/NitinDahiya199/higgsfield.ai/ext"
	"github.com/NitinDahiya199/higgsfield.ai/job"
)

var (
	_ ext.Extension    = (*MetricsExtension)(nil)
	_ ext.JobClaimed   = (*MetricsExtension)(nil)
	_ ext.JobCompleted = (*MetricsExtension)(nil)
	_ ext.JobFailed    = (*MetricsExtension)(nil)
	_ ext.JobDropped   = (*MetricsExtension)(nil)
)

const meterName = "github.com/NitinDahiya199/higgsfield.ai/observability"

// MetricsExtension counts state transitions per queue with OpenTelemetry
// counters. Every data point carries a "queue" attribute.
type MetricsExtension struct {
	claimed   metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
	dropped   metric.Int64Counter
	elapsed   metric.Float64Histogram
}

// NewMetricsExtension uses the global MeterProvider.
func NewMetricsExtension() (*MetricsExtension, error) {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter builds the instruments on meter.
func NewMetricsExtensionWithMeter(meter metric.Meter) (*MetricsExtension, error) {
	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{job}"))
		errs = append(errs, err)
		return c
	}

	m := &MetricsExtension{
		claimed:   counter("aiworker.job.claimed", "Jobs moved onto an active list"),
		completed: counter("aiworker.job.completed", "Jobs filed on a completed list"),
		failed:    counter("aiworker.job.failed", "Jobs filed on a failed list"),
		dropped:   counter("aiworker.job.dropped", "Popped job ids discarded for a missing payload"),
	}
	var err error
	m.elapsed, err = meter.Float64Histogram("aiworker.job.elapsed",
		metric.WithDescription("Time from claim to completion"),
		metric.WithUnit("s"),
	)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "otel-metrics" }

// OnJobClaimed implements ext.JobClaimed.
func (m *MetricsExtension) OnJobClaimed(ctx context.Context, j *job.Job) error {
	m.claimed.Add(ctx, 1, queueAttr(j.Queue))
	return nil
}

// OnJobCompleted implements ext.JobCompleted.
func (m *MetricsExtension) OnJobCompleted(ctx context.Context, j *job.Job, elapsed time.Duration) error {
	m.completed.Add(ctx, 1, queueAttr(j.Queue))
	m.elapsed.Record(ctx, elapsed.Seconds(), queueAttr(j.Queue))
	return nil
}

// OnJobFailed implements ext.JobFailed.
func (m *MetricsExtension) OnJobFailed(ctx context.Context, j *job.Job, _ error) error {
	m.failed.Add(ctx, 1, queueAttr(j.Queue))
	return nil
}

// OnJobDropped implements ext.JobDropped.
func (m *MetricsExtension) OnJobDropped(ctx context.Context, queue, _ string) error {
	m.dropped.Add(ctx, 1, queueAttr(queue))
	return nil
}

func queueAttr(queue string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("queue", queue))
}
