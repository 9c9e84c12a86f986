package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	MetricDuplicationsTotal   = "coursebridge_duplications_total"
	MetricDuplicationDuration = "coursebridge_duplication_duration_seconds"
)

// DuplicationMetrics records the outcome and latency of duplicate requests
type DuplicationMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewDuplicationMetrics registers the duplication instruments on meter
func NewDuplicationMetrics(meter metric.Meter) (*DuplicationMetrics, error) {
	total, err := meter.Int64Counter(MetricDuplicationsTotal,
		metric.WithDescription("Duplicate requests by result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(MetricDuplicationDuration,
		metric.WithDescription("Duplicate request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, err
	}
	return &DuplicationMetrics{total: total, duration: duration}, nil
}

// RecordDuplication counts one request with its result label ("success" or
// an error code) and records how long it took.
func (m *DuplicationMetrics) RecordDuplication(ctx context.Context, result string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("result", result))
	m.total.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}
