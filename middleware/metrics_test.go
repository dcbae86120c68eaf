package middleware_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/NitinDahiya199/higgsfield.ai/middleware"
)

func setupTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	t.Fatalf("metric %q not found", name)
	return nil
}

func TestMetrics_CountsByStatus(t *testing.T) {
	reader, mp := setupTestMeter()
	m := middleware.MetricsWithMeter(mp.Meter("test"))

	_ = m(context.Background(), newTestJob(), func(context.Context) error { return nil })
	_ = m(context.Background(), newTestJob(), func(context.Context) error { return nil })
	_ = m(context.Background(), newTestJob(), func(context.Context) error { return errors.New("x") })

	sum, ok := findMetric(t, reader, "aiworker.handler.calls").Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("expected Sum[int64]")
	}

	byStatus := map[string]int64{}
	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		queue, _ := dp.Attributes.Value(attribute.Key("queue"))
		if queue.AsString() != "image-generation" {
			t.Errorf("queue attribute = %q", queue.AsString())
		}
		byStatus[status.AsString()] += dp.Value
	}
	if byStatus["ok"] != 2 || byStatus["error"] != 1 {
		t.Errorf("counts = %v, want ok=2 error=1", byStatus)
	}
}

func TestMetrics_RecordsDuration(t *testing.T) {
	reader, mp := setupTestMeter()
	m := middleware.MetricsWithMeter(mp.Meter("test"))

	_ = m(context.Background(), newTestJob(), func(context.Context) error { return nil })

	hist, ok := findMetric(t, reader, "aiworker.handler.duration").Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("expected Histogram[float64]")
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("data points = %+v", hist.DataPoints)
	}
}

func TestMetrics_PreservesError(t *testing.T) {
	_, mp := setupTestMeter()
	want := errors.New("x")
	if err := middleware.MetricsWithMeter(mp.Meter("test"))(context.Background(), newTestJob(), func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("got %v", err)
	}
}
