package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix marks environment overrides.
	EnvPrefix = "CLARITY_"
)

// DefaultPath returns ~/.config/clarity/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "clarity", "config.yaml")
}

// Load builds the configuration.
//
// Precedence (highest to lowest):
//  1. CLARITY_* environment variables
//  2. YAML file at configPath
//  3. Defaults()
//
// An empty configPath falls back to DefaultPath, which may be absent. An
// explicit configPath must exist.
//
// Environment variables map onto keys by stripping the prefix, lowercasing,
// and matching underscores against the known key set:
//
//	CLARITY_ENGINE_TOP_N              -> engine.top_n
//	CLARITY_SIMILARITY_DENSE_MODEL    -> similarity.dense.model
//	CLARITY_DATA_KEYWORDS_PATH        -> data.keywords_path
//	CLARITY_TELEMETRY_ENABLED         -> telemetry.enabled
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults, err := yamlv3.Marshal(Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	known := k.Keys()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultPath()
	}
	if configPath != "" {
		content, err := readConfigFile(configPath, explicit)
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper(known)), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// readConfigFile returns nil content when an implicit path is absent.
func readConfigFile(path string, explicit bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// Validate using the open descriptor to avoid a TOCTOU race
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func validateConfigFileProperties(info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config path is not a regular file")
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

// envKeyMapper maps CLARITY_SECTION_FIELD names onto known dotted keys.
// Unknown names split on the first underscore (section.field_name).
func envKeyMapper(known []string) func(string) string {
	byFlat := make(map[string]string, len(known))
	for _, key := range known {
		byFlat[strings.ReplaceAll(key, ".", "_")] = key
	}
	return func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if key, ok := byFlat[lower]; ok {
			return key
		}
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}
}

// applyDefaults fills zero values a file or env var may have blanked.
func applyDefaults(cfg *Config) {
	d := Defaults()
	if cfg.Engine.ModelName == "" {
		cfg.Engine.ModelName = d.Engine.ModelName
	}
	if cfg.Similarity.Strategy == "" {
		cfg.Similarity.Strategy = d.Similarity.Strategy
	}
	if cfg.Similarity.Dense.Model == "" {
		cfg.Similarity.Dense.Model = d.Similarity.Dense.Model
	}
	if cfg.Similarity.Dense.MaxLength == 0 {
		cfg.Similarity.Dense.MaxLength = d.Similarity.Dense.MaxLength
	}
	if cfg.Similarity.General.SeqLen == 0 {
		cfg.Similarity.General.SeqLen = d.Similarity.General.SeqLen
	}
	if cfg.Similarity.General.Dimension == 0 {
		cfg.Similarity.General.Dimension = d.Similarity.General.Dimension
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = d.Logging.Output
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = d.Telemetry.ServiceName
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = d.Telemetry.Protocol
	}
}

// Marshal renders cfg as YAML in the file format Load reads.
func Marshal(cfg *Config) ([]byte, error) {
	return yamlv3.Marshal(cfg)
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
