// Package embeddings provides embedding generation via multiple providers.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyInput indicates empty or nil input texts
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrFastEmbedNotAvailable is returned when FastEmbed cannot run in this build or environment.
	ErrFastEmbedNotAvailable = errors.New("fastembed: not available")

	// ErrONNXNotAvailable is returned when the raw ONNX encoder cannot run in this build or environment.
	ErrONNXNotAvailable = errors.New("onnx encoder: not available")
)

// Provider is the interface for embedding providers.
type Provider interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the embedding dimension for the current model.
	Dimension() int
	// ModelName returns the configured model identifier.
	ModelName() string
	// Close releases resources held by the provider.
	Close() error
}

// ProviderConfig holds configuration for creating an embedding provider.
type ProviderConfig struct {
	// Provider is the provider type: "fastembed" or "onnx"
	Provider string
	// FastEmbed is used when Provider is "fastembed" (or empty)
	FastEmbed FastEmbedConfig
	// ONNX is used when Provider is "onnx"
	ONNX ONNXConfig
}

// NewProvider creates an embedding provider based on the configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "fastembed", "":
		p, err := NewFastEmbedProvider(cfg.FastEmbed)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "onnx":
		e, err := NewONNXEncoder(cfg.ONNX)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

// validateTexts rejects empty batches and blank members.
func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: text %d is blank", ErrEmptyInput, i)
		}
	}
	return nil
}
