package engine

import (
	"errors"
	"fmt"
	"math"
)

// Defaults.
const (
	DefaultTopN      = 3
	DefaultThreshold = 0.1
	DefaultModelName = "ClarityAI_Model_v1"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds the ranking parameters.
type Config struct {
	// TopN is the maximum number of categories returned.
	TopN int `koanf:"top_n" yaml:"top_n"`
	// Threshold is the minimum score a category needs to be kept.
	Threshold float64 `koanf:"threshold" yaml:"threshold"`
	// ModelName is reported verbatim in every result.
	ModelName string `koanf:"model_name" yaml:"model_name"`
}

// DefaultConfig returns top 3 above 0.1.
func DefaultConfig() Config {
	return Config{
		TopN:      DefaultTopN,
		Threshold: DefaultThreshold,
		ModelName: DefaultModelName,
	}
}

// Validate checks TopN >= 1 and Threshold within [0, 1].
func (c Config) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be >= 1, got %d", ErrInvalidConfig, c.TopN)
	}
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [0, 1], got %v", ErrInvalidConfig, c.Threshold)
	}
	return nil
}
