package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
)

// Encoder turns texts into embedding vectors, one per text in input order.
// embeddings.Provider satisfies it.
type Encoder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
	Close() error
}

// Cosine scores a scenario against the comma-joined keyword text by cosine
// similarity of their embeddings. Negative and NaN similarities clamp to 0.
//
// Keyword vectors are cached for the lifetime of the strategy since the
// keyword table never changes. The last scenario vector is memoised so one
// analysis encodes the scenario once across all categories.
type Cosine struct {
	name    string
	encoder Encoder

	mu       sync.RWMutex
	keywords map[string][]float32

	lastMu       sync.Mutex
	lastScenario string
	lastVector   []float32
}

// NewCosine wraps encoder as a strategy reported under name.
func NewCosine(name string, encoder Encoder) *Cosine {
	return &Cosine{
		name:     name,
		encoder:  encoder,
		keywords: make(map[string][]float32),
	}
}

// Name implements Strategy.
func (c *Cosine) Name() string { return c.name }

// ModelName reports the underlying encoder model.
func (c *Cosine) ModelName() string { return c.encoder.ModelName() }

// Similarity implements Strategy.
func (c *Cosine) Similarity(ctx context.Context, scenario string, keywords []string) (float64, error) {
	if strings.TrimSpace(scenario) == "" || len(keywords) == 0 {
		return 0, nil
	}
	text := strings.Join(keywords, ", ")
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	sv, err := c.scenarioVector(ctx, scenario)
	if err != nil {
		return 0, err
	}
	kv, err := c.keywordVector(ctx, text)
	if err != nil {
		return 0, err
	}
	return clampScore(CosineSimilarity(sv, kv)), nil
}

func (c *Cosine) scenarioVector(ctx context.Context, scenario string) ([]float32, error) {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()

	if c.lastVector != nil && c.lastScenario == scenario {
		return c.lastVector, nil
	}
	v, err := c.embedOne(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	c.lastScenario, c.lastVector = scenario, v
	return v, nil
}

func (c *Cosine) keywordVector(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	v, ok := c.keywords[text]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := c.embedOne(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("encode keywords: %w", err)
	}

	c.mu.Lock()
	c.keywords[text] = v
	c.mu.Unlock()
	return v, nil
}

func (c *Cosine) embedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.encoder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("encoder returned %d vectors for 1 text", len(vectors))
	}
	return vectors[0], nil
}

// checkText is encoded once by Check.
const checkText = "a data breach exposed patient records"

// Check encodes a fixed text and fails unless the encoder yields one
// non-empty finite vector. A session can load and still fail every run, for
// example when the configured hidden size does not match the model.
func (c *Cosine) Check(ctx context.Context) error {
	v, err := c.embedOne(ctx, checkText)
	if err != nil {
		return fmt.Errorf("%s: check encode: %w", c.name, err)
	}
	if len(v) == 0 {
		return fmt.Errorf("%s: check encode returned an empty vector", c.name)
	}
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("%s: check encode returned a non-finite vector", c.name)
		}
	}
	return nil
}

// Warm encodes every keyword text up front in one batch.
func (c *Cosine) Warm(ctx context.Context, keywordLists [][]string) error {
	var texts []string
	c.mu.RLock()
	for _, kws := range keywordLists {
		text := strings.Join(kws, ", ")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, ok := c.keywords[text]; !ok {
			texts = append(texts, text)
		}
	}
	c.mu.RUnlock()
	if len(texts) == 0 {
		return nil
	}

	vectors, err := c.encoder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("warm keyword vectors: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("warm keyword vectors: got %d vectors for %d texts", len(vectors), len(texts))
	}

	c.mu.Lock()
	for i, text := range texts {
		c.keywords[text] = vectors[i]
	}
	c.mu.Unlock()
	return nil
}

// Close releases the encoder.
func (c *Cosine) Close() error {
	return c.encoder.Close()
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clampScore(s float64) float64 {
	switch {
	case math.IsNaN(s), s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
