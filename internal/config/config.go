// Package config provides configuration loading for clarity.
//
// Configuration is built from defaults, an optional YAML file and CLARITY_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/clarity/internal/embeddings"
	"github.com/fyrsmithlabs/clarity/internal/engine"
	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/similarity"
	"github.com/fyrsmithlabs/clarity/internal/telemetry"
)

// Config holds the complete clarity configuration.
type Config struct {
	Engine     engine.Config    `koanf:"engine" yaml:"engine"`
	Data       DataConfig       `koanf:"data" yaml:"data"`
	Similarity SimilarityConfig `koanf:"similarity" yaml:"similarity"`
	Logging    logging.Config   `koanf:"logging" yaml:"logging"`
	Telemetry  telemetry.Config `koanf:"telemetry" yaml:"telemetry"`
}

// DataConfig locates the keyword table, sample scenarios and causal map.
type DataConfig struct {
	KeywordsPath  string `koanf:"keywords_path" yaml:"keywords_path"`
	ScenariosPath string `koanf:"scenarios_path" yaml:"scenarios_path"`
	// CausalMapPath replaces the built-in causal table when set.
	CausalMapPath string `koanf:"causal_map_path" yaml:"causal_map_path"`
}

// SimilarityConfig selects and configures the scoring tiers.
type SimilarityConfig struct {
	// Strategy is auto, dense, general or lexical.
	Strategy string        `koanf:"strategy" yaml:"strategy"`
	Dense    DenseConfig   `koanf:"dense" yaml:"dense"`
	General  GeneralConfig `koanf:"general" yaml:"general"`
}

// DenseConfig configures the FastEmbed tier.
type DenseConfig struct {
	Model     string `koanf:"model" yaml:"model"`
	CacheDir  string `koanf:"cache_dir" yaml:"cache_dir"`
	MaxLength int    `koanf:"max_length" yaml:"max_length"`
}

// GeneralConfig configures the raw ONNX encoder tier.
type GeneralConfig struct {
	ModelDir     string `koanf:"model_dir" yaml:"model_dir"`
	SeqLen       int    `koanf:"seq_len" yaml:"seq_len"`
	// Dimension is the encoder hidden size, 384 for MiniLM and 768 for base models.
	Dimension    int    `koanf:"dimension" yaml:"dimension"`
	TokenTypeIDs bool   `koanf:"token_type_ids" yaml:"token_type_ids"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Engine: engine.DefaultConfig(),
		Data: DataConfig{
			KeywordsPath:  filepath.Join("data", "demo_keywords.csv"),
			ScenariosPath: filepath.Join("data", "sample_scenarios.csv"),
		},
		Similarity: SimilarityConfig{
			Strategy: similarity.ModeAuto,
			Dense: DenseConfig{
				Model:     embeddings.DefaultFastEmbedModel,
				MaxLength: 512,
			},
			General: GeneralConfig{
				SeqLen:       128,
				Dimension:    384,
				TokenTypeIDs: true,
			},
		},
		Logging:   *logging.NewDefaultConfig(),
		Telemetry: *telemetry.NewDefaultConfig(),
	}
}

// SimilarityOptions converts the tier settings for similarity.TiersFor.
func (c *Config) SimilarityOptions() similarity.Options {
	return similarity.Options{
		Dense: embeddings.FastEmbedConfig{
			Model:     c.Similarity.Dense.Model,
			CacheDir:  expandHome(c.Similarity.Dense.CacheDir),
			MaxLength: c.Similarity.Dense.MaxLength,
		},
		General: embeddings.ONNXConfig{
			ModelDir:     expandHome(c.Similarity.General.ModelDir),
			SeqLen:       c.Similarity.General.SeqLen,
			Dimension:    c.Similarity.General.Dimension,
			TokenTypeIDs: c.Similarity.General.TokenTypeIDs,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Data.KeywordsPath) == "" {
		errs = append(errs, errors.New("data.keywords_path is required"))
	}
	if !similarity.ValidMode(c.Similarity.Strategy) {
		errs = append(errs, fmt.Errorf("similarity.strategy must be auto, dense, general or lexical, got %q", c.Similarity.Strategy))
	}
	if c.Similarity.Dense.MaxLength < 0 {
		errs = append(errs, fmt.Errorf("similarity.dense.max_length must be >= 0, got %d", c.Similarity.Dense.MaxLength))
	}
	if c.Similarity.General.SeqLen < 0 {
		errs = append(errs, fmt.Errorf("similarity.general.seq_len must be >= 0, got %d", c.Similarity.General.SeqLen))
	}
	if c.Similarity.General.Dimension < 0 {
		errs = append(errs, fmt.Errorf("similarity.general.dimension must be >= 0, got %d", c.Similarity.General.Dimension))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
