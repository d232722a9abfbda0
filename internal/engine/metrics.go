package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/clarity/internal/engine"

// Metrics holds analysis instruments. Nil instruments are skipped.
type Metrics struct {
	duration metric.Float64Histogram
	selected metric.Int64Histogram
	invalid  metric.Int64Counter
	scoreErr metric.Int64Counter
}

func newMetrics(meter metric.Meter, logger *zap.Logger) *Metrics {
	m := &Metrics{}
	var err error

	m.duration, err = meter.Float64Histogram(
		"clarity.analysis.duration_seconds",
		metric.WithDescription("Duration of one scenario analysis"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	)
	if err != nil {
		logger.Warn("failed to create analysis duration histogram", zap.Error(err))
	}

	m.selected, err = meter.Int64Histogram(
		"clarity.analysis.categories_selected",
		metric.WithDescription("Categories returned per analysis"),
		metric.WithUnit("{category}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10),
	)
	if err != nil {
		logger.Warn("failed to create categories histogram", zap.Error(err))
	}

	m.invalid, err = meter.Int64Counter(
		"clarity.analysis.invalid_total",
		metric.WithDescription("Analyses rejected for invalid scenario input"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		logger.Warn("failed to create invalid counter", zap.Error(err))
	}

	m.scoreErr, err = meter.Int64Counter(
		"clarity.analysis.score_errors_total",
		metric.WithDescription("Category scores that failed and were recorded as 0"),
		metric.WithUnit("{score}"),
	)
	if err != nil {
		logger.Warn("failed to create score error counter", zap.Error(err))
	}
	return m
}

func defaultMetrics(logger *zap.Logger) *Metrics {
	return newMetrics(otel.Meter(instrumentationName), logger)
}

func (m *Metrics) recordAnalysis(ctx context.Context, strategy string, d time.Duration, selected int) {
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
	if m.selected != nil {
		m.selected.Record(ctx, int64(selected), attrs)
	}
}

func (m *Metrics) recordInvalid(ctx context.Context) {
	if m.invalid != nil {
		m.invalid.Add(ctx, 1)
	}
}

func (m *Metrics) recordScoreError(ctx context.Context, strategy string) {
	if m.scoreErr != nil {
		m.scoreErr.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", strategy)))
	}
}
