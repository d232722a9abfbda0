//go:build !cgo

package embeddings

import (
	"context"
	"fmt"
)

// ONNXEncoder is unavailable without CGO.
type ONNXEncoder struct{}

// NewONNXEncoder always fails in builds without CGO.
func NewONNXEncoder(cfg ONNXConfig) (*ONNXEncoder, error) {
	return nil, fmt.Errorf("%w: binary built without CGO support", ErrONNXNotAvailable)
}

func (e *ONNXEncoder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, ErrONNXNotAvailable
}

func (e *ONNXEncoder) Dimension() int    { return 0 }
func (e *ONNXEncoder) ModelName() string { return "" }
func (e *ONNXEncoder) Close() error      { return nil }
