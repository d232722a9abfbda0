package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// restoreGlobals puts the otel globals back after a test that installs providers.
func restoreGlobals(t *testing.T) {
	t.Helper()
	tp, mp, prop := otel.GetTracerProvider(), otel.GetMeterProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig(), "dev")
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))

	health := tel.Health()
	assert.False(t, health.Enabled)
	assert.False(t, health.Degraded)
	assert.NoError(t, tel.ForceFlush(context.Background()))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNew_NilConfig(t *testing.T) {
	tel, err := New(context.Background(), nil, "dev")
	require.NoError(t, err)
	assert.False(t, tel.Health().Enabled)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := enabledConfig()
	cfg.Endpoint = ""

	tel, err := New(context.Background(), cfg, "dev")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, tel)
}

func TestNew_EnabledExportsSpansAndMetrics(t *testing.T) {
	restoreGlobals(t)
	ctx := context.Background()
	exp := tracetest.NewInMemoryExporter()
	reader := sdkmetric.NewManualReader()

	tel, err := New(ctx, enabledConfig(), "1.0.0", WithSpanExporter(exp), WithMetricReader(reader))
	require.NoError(t, err)
	assert.True(t, tel.Health().Enabled)
	assert.False(t, tel.Health().Degraded)

	_, span := tel.Tracer("test").Start(ctx, "engine.analyze")
	span.End()
	require.NoError(t, tel.ForceFlush(ctx))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "engine.analyze", spans[0].Name)

	counter, err := otel.Meter("test").Int64Counter("clarity.test.count")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)
	assert.Equal(t, "clarity.test.count", rm.ScopeMetrics[0].Metrics[0].Name)

	require.NoError(t, tel.Shutdown(ctx))
	assert.False(t, tel.Health().Enabled)
	assert.NoError(t, tel.Shutdown(ctx), "second shutdown is a no-op")
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.NoError(t, tel.ForceFlush(context.Background()))
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.Equal(t, HealthStatus{}, tel.Health())
}

func TestTelemetry_Degraded(t *testing.T) {
	tel := &Telemetry{config: enabledConfig()}
	tel.setDegraded("meter provider: %v", assert.AnError)

	health := tel.Health()
	assert.True(t, health.Degraded)
	require.Len(t, health.Reasons, 1)
	assert.Contains(t, health.Reasons[0], "meter provider")
}

func TestTestTelemetry_Spans(t *testing.T) {
	tt := NewTestTelemetry()
	ctx := context.Background()

	_, span := tt.Tracer("test").Start(ctx, "engine.analyze")
	span.SetAttributes(
		attribute.String("strategy", "lexical"),
		attribute.Int("categories", 2),
		attribute.Bool("invalid", false),
		attribute.Float64("top_score", 0.5),
	)
	span.End()

	tt.AssertSpanExists(t, "engine.analyze")
	tt.AssertSpanAttribute(t, "engine.analyze", "strategy", "lexical")
	tt.AssertSpanAttribute(t, "engine.analyze", "categories", int64(2))
	tt.AssertSpanAttribute(t, "engine.analyze", "invalid", false)
	tt.AssertSpanAttribute(t, "engine.analyze", "top_score", 0.5)
	assert.Nil(t, tt.SpanByName("missing"))
	assert.Equal(t, []string{"engine.analyze"}, tt.spanNames())
}

func TestTestTelemetry_Metric(t *testing.T) {
	tt := NewTestTelemetry()
	ctx := context.Background()

	hist, err := tt.Meter("test").Float64Histogram("clarity.test.duration")
	require.NoError(t, err)
	hist.Record(ctx, 0.25)

	m, ok := tt.Metric(ctx, "clarity.test.duration")
	require.True(t, ok)
	data, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)

	_, ok = tt.Metric(ctx, "missing")
	assert.False(t, ok)
}
