// Package engine ranks a scenario against the keyword table and explains
// co-occurring categories from the causal map.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clarity/internal/causal"
	"github.com/fyrsmithlabs/clarity/internal/dataset"
	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/similarity"
)

// Engine scores scenarios. All state is read-only after New, so Analyze is
// safe for concurrent use when the strategy is.
type Engine struct {
	cfg        Config
	categories []dataset.Category
	causal     *causal.Map
	strategy   similarity.Strategy

	logger  *logging.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMeter records metrics on meter instead of the global provider.
func WithMeter(meter metric.Meter) Option {
	return func(e *Engine) {
		if meter != nil {
			e.metrics = newMetrics(meter, e.logger.Underlying())
		}
	}
}

// WithTracer records spans on tracer instead of the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// New builds an engine. A nil keyword table is treated as empty, a nil
// causal map as the built-in table, and a nil strategy as lexical.
func New(cfg Config, keywords *dataset.KeywordTable, cmap *causal.Map, strategy similarity.Strategy, opts ...Option) (*Engine, error) {
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModelName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cmap == nil {
		cmap = causal.Default()
	}
	if strategy == nil {
		strategy = similarity.NewLexical()
	}

	e := &Engine{
		cfg:        cfg,
		categories: keywords.Categories(),
		causal:     cmap,
		strategy:   strategy,
		logger:     logging.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = defaultMetrics(e.logger.Underlying())
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Strategy returns the active similarity strategy.
func (e *Engine) Strategy() similarity.Strategy { return e.strategy }

// Categories returns the number of categories scored per analysis.
func (e *Engine) Categories() int { return len(e.categories) }

// Analyze scores scenario against every category and returns the top
// categories with their causal explanations. Invalid input yields a result
// whose Error is set; Analyze never returns a Go error.
func (e *Engine) Analyze(ctx context.Context, scenario string) Result {
	ctx, span := e.tracer.Start(ctx, "engine.analyze")
	defer span.End()

	trimmed := strings.TrimSpace(scenario)
	if trimmed == "" || !utf8.ValidString(scenario) {
		e.metrics.recordInvalid(ctx)
		span.SetStatus(codes.Error, InvalidScenarioMessage)
		e.logger.Debug(ctx, "rejected scenario input", zap.Int("bytes", len(scenario)))
		return invalidResult()
	}

	start := time.Now()
	top := e.rank(ctx, e.score(ctx, trimmed))
	links := e.explain(top)

	explanations := make([]string, len(links))
	for i, l := range links {
		explanations[i] = l.String()
	}

	span.SetAttributes(
		attribute.String("strategy", e.strategy.Name()),
		attribute.Int("categories.scored", len(e.categories)),
		attribute.Int("categories.selected", len(top)),
		attribute.Int("causal.links", len(links)),
	)
	e.metrics.recordAnalysis(ctx, e.strategy.Name(), time.Since(start), len(top))
	e.logger.Debug(ctx, "scenario analyzed",
		zap.String("strategy", e.strategy.Name()),
		zap.Int("selected", len(top)),
		zap.Int("links", len(links)),
		zap.Duration("duration", time.Since(start)))

	return Result{
		Scenario:           trimmed,
		TopCategories:      top,
		CausalExplanations: explanations,
		CausalLinks:        links,
		Model:              e.cfg.ModelName,
		Strategy:           e.strategy.Name(),
	}
}

// score computes one score per category in table order. Failures and
// cancellation score 0 and are logged.
func (e *Engine) score(ctx context.Context, scenario string) []ScoredCategory {
	scores := make([]ScoredCategory, len(e.categories))
	cancelled := false
	for i, c := range e.categories {
		scores[i].Category = c.Name
		if cancelled {
			continue
		}
		if err := ctx.Err(); err != nil {
			cancelled = true
			e.logger.Warn(ctx, "analysis cancelled, remaining categories score 0",
				zap.Int("remaining", len(e.categories)-i),
				zap.Error(err))
			continue
		}

		s, err := e.strategy.Similarity(ctx, scenario, c.Keywords)
		if err != nil {
			e.metrics.recordScoreError(ctx, e.strategy.Name())
			level := e.logger.Warn
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				level = e.logger.Debug
			}
			level(ctx, "similarity failed, scoring 0",
				zap.String("category", c.Name),
				zap.String("strategy", e.strategy.Name()),
				zap.Error(err))
			continue
		}
		scores[i].Score = s
	}
	return scores
}

// rank keeps scores at or above the threshold, sorts them descending with
// ties in table order, and truncates to TopN.
func (e *Engine) rank(ctx context.Context, scores []ScoredCategory) []ScoredCategory {
	kept := make([]ScoredCategory, 0, len(scores))
	for _, s := range scores {
		if s.Score >= e.cfg.Threshold {
			kept = append(kept, s)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if len(kept) > e.cfg.TopN {
		kept = kept[:e.cfg.TopN]
	}
	if e.logger.Enabled(logging.TraceLevel) {
		e.logger.Trace(ctx, "category scores", zap.Any("scores", scores))
	}
	return kept
}

// explain looks up every pair (i < j) of the ranked list.
func (e *Engine) explain(top []ScoredCategory) []causal.Link {
	links := []causal.Link{}
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			if l, ok := e.causal.Lookup(top[i].Category, top[j].Category); ok {
				links = append(links, l)
			}
		}
	}
	return links
}

// String describes the engine for logs.
func (e *Engine) String() string {
	return fmt.Sprintf("engine(strategy=%s, categories=%d, top_n=%d, threshold=%g)",
		e.strategy.Name(), len(e.categories), e.cfg.TopN, e.cfg.Threshold)
}
