package similarity

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// bowEncoder is a deterministic bag-of-words encoder over a fixed vocabulary.
type bowEncoder struct {
	vocab []string

	mu     sync.Mutex
	calls  int
	texts  []string
	err    error
	closed bool
}

func newBowEncoder(vocab ...string) *bowEncoder {
	return &bowEncoder{vocab: vocab}
}

func (e *bowEncoder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.texts = append(e.texts, texts...)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, len(e.vocab))
		for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return r == ' ' || r == ','
		}) {
			for j, w := range e.vocab {
				if tok == w {
					v[j]++
				}
			}
		}
		out[i] = v
	}
	return out, nil
}

func (e *bowEncoder) ModelName() string { return "bow-test" }

func (e *bowEncoder) Close() error {
	e.closed = true
	return nil
}

func (e *bowEncoder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

var errEncoderDown = errors.New("encoder down")
