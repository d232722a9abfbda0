// Package main implements the clarity CLI: score scenarios against keyword
// categories and explain co-occurring categories.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clarity/internal/causal"
	"github.com/fyrsmithlabs/clarity/internal/config"
	"github.com/fyrsmithlabs/clarity/internal/dataset"
	"github.com/fyrsmithlabs/clarity/internal/engine"
	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/similarity"
	"github.com/fyrsmithlabs/clarity/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// The explanation block already reports invalid input.
		if !errors.Is(err, engine.ErrInvalidScenario) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	keywords   string
	causalMap  string
	strategy   string
	topN       int
	threshold  float64
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "clarity",
		Short: "Categorise scenarios and explain co-occurring risks",
		Long: `clarity scores a free-text scenario against keyword categories, keeps the
top matches above a threshold, and explains pairs of categories that are
known to interact.

Similarity is computed with a local sentence embedding model when the ONNX
runtime is available, and falls back to keyword overlap otherwise.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/clarity/config.yaml)")
	f.StringVar(&opts.keywords, "keywords", "", "keyword CSV (overrides data.keywords_path)")
	f.StringVar(&opts.causalMap, "causal-map", "", "causal map YAML (overrides data.causal_map_path)")
	f.StringVar(&opts.strategy, "strategy", "", "similarity strategy: auto, dense, general or lexical")
	f.IntVar(&opts.topN, "top-n", 0, "maximum categories to report (overrides engine.top_n)")
	f.Float64Var(&opts.threshold, "threshold", 0, "minimum score to report (overrides engine.threshold)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newBatchCmd(opts),
		newInteractiveCmd(opts),
		newStrategiesCmd(opts),
		newConfigCmd(opts),
		newONNXCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig loads the config file and applies flag overrides.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if o.keywords != "" {
		cfg.Data.KeywordsPath = o.keywords
	}
	if o.causalMap != "" {
		cfg.Data.CausalMapPath = o.causalMap
	}
	if o.strategy != "" {
		cfg.Similarity.Strategy = strings.ToLower(o.strategy)
	}
	if flags.Changed("top-n") {
		cfg.Engine.TopN = o.topN
	}
	if flags.Changed("threshold") {
		cfg.Engine.Threshold = o.threshold
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// engineScope names the engine tracer and meter.
const engineScope = "github.com/fyrsmithlabs/clarity/internal/engine"

// app is the wired engine plus the resources it holds.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	engine    *engine.Engine
	selection similarity.Selection
}

// setup loads config, keywords and causal map, selects the similarity
// strategy and builds the engine.
func (o *options) setup(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tel, err := telemetry.New(ctx, &cfg.Telemetry, version)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Strings("reasons", h.Reasons))
	}
	a := &app{cfg: cfg, logger: logger, telemetry: tel}

	cmap, err := loadCausalMap(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	table := dataset.LoadKeywords(ctx, logger, cfg.Data.KeywordsPath)
	warnUnknownCausalCategories(ctx, logger, cmap, table)

	tiers, err := similarity.TiersFor(cfg.Similarity.Strategy, cfg.SimilarityOptions())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.selection = similarity.Select(ctx, logger.Named("similarity"), tiers...)
	warmStrategy(ctx, logger, a.selection.Strategy, table)

	eng, err := engine.New(cfg.Engine, table, cmap, a.selection.Strategy,
		engine.WithLogger(logger.Named("engine")),
		engine.WithTracer(tel.Tracer(engineScope)),
		engine.WithMeter(tel.Meter(engineScope)))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = eng

	logger.Debug(ctx, "engine ready",
		zap.String("engine", eng.String()),
		zap.Int("causal_pairs", cmap.Len()))

	return a, nil
}

// loadCausalMap returns the configured causal table, or the built-in one.
func loadCausalMap(cfg *config.Config) (*causal.Map, error) {
	if cfg.Data.CausalMapPath == "" {
		return causal.Default(), nil
	}
	return causal.LoadFile(cfg.Data.CausalMapPath)
}

// warnUnknownCausalCategories logs causal categories the keyword table never
// scores. Their pairs can never be selected.
func warnUnknownCausalCategories(ctx context.Context, logger *logging.Logger, cmap *causal.Map, table *dataset.KeywordTable) {
	if table.Len() == 0 {
		return
	}
	var missing []string
	for name := range cmap.Categories() {
		if _, ok := table.Keywords(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Strings(missing)
	logger.Warn(ctx, "causal map names categories missing from the keyword table",
		zap.Strings("categories", missing))
}

// warmStrategy encodes every keyword list once so the first analysis does
// not pay for it.
func warmStrategy(ctx context.Context, logger *logging.Logger, s similarity.Strategy, table *dataset.KeywordTable) {
	c, ok := s.(*similarity.Cosine)
	if !ok || table.Len() == 0 {
		return
	}
	lists := make([][]string, 0, table.Len())
	for _, cat := range table.Categories() {
		lists = append(lists, cat.Keywords)
	}
	if err := c.Warm(ctx, lists); err != nil {
		logger.Warn(ctx, "failed to pre-encode keywords", zap.Error(err))
	}
}

// Close releases the strategy, flushes telemetry and syncs logs.
func (a *app) Close() {
	ctx := context.Background()
	if a.selection.Strategy != nil {
		if err := similarity.Close(a.selection.Strategy); err != nil {
			a.logger.Warn(ctx, "failed to close similarity strategy", zap.Error(err))
		}
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn(ctx, "failed to shut down telemetry", zap.Error(err))
	}
	_ = a.logger.Sync()
}
