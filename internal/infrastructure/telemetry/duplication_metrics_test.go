package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestDuplicationMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewDuplicationMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDuplication(ctx, "success", 40*time.Millisecond)
	m.RecordDuplication(ctx, "success", 60*time.Millisecond)
	m.RecordDuplication(ctx, "NOT_AVAILABLE", 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		byName[metric.Name] = metric
	}

	total, ok := byName[MetricDuplicationsTotal]
	require.True(t, ok)
	sum := total.Data.(metricdata.Sum[int64])
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("result"))
		counts[v.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), counts["success"])
	assert.Equal(t, int64(1), counts["NOT_AVAILABLE"])

	duration, ok := byName[MetricDuplicationDuration]
	require.True(t, ok)
	hist := duration.Data.(metricdata.Histogram[float64])
	var observed uint64
	for _, dp := range hist.DataPoints {
		observed += dp.Count
	}
	assert.Equal(t, uint64(3), observed)
}
