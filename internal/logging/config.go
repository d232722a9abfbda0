// internal/logging/config.go
package logging

import (
	"fmt"
)

// Config holds logging configuration.
type Config struct {
	Level  string            `koanf:"level" yaml:"level"`
	Format string            `koanf:"format" yaml:"format"`
	Output string            `koanf:"output" yaml:"output"`
	Caller CallerConfig      `koanf:"caller" yaml:"caller"`
	Fields map[string]string `koanf:"fields" yaml:"fields"`
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
	Skip    int  `koanf:"skip" yaml:"skip"`
}

// NewDefaultConfig returns config suited to an interactive CLI.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
		Caller: CallerConfig{
			Enabled: false,
			Skip:    1,
		},
		Fields: map[string]string{
			"service": "clarity",
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if _, err := LevelFromString(c.Level); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if c.Output != "stdout" && c.Output != "stderr" {
		return fmt.Errorf("output must be 'stdout' or 'stderr', got %q", c.Output)
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}
	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}
	return nil
}
