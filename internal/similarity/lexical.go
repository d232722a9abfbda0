package similarity

import (
	"context"
	"strings"
)

// Lexical scores the fraction of keywords that appear as case-insensitive
// substrings of the scenario. Duplicate keywords are counted individually.
type Lexical struct{}

// NewLexical returns the lexical overlap strategy.
func NewLexical() Lexical {
	return Lexical{}
}

// Name implements Strategy.
func (Lexical) Name() string { return NameLexical }

// Similarity implements Strategy.
func (Lexical) Similarity(_ context.Context, scenario string, keywords []string) (float64, error) {
	if scenario == "" || len(keywords) == 0 {
		return 0, nil
	}
	lower := strings.ToLower(scenario)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords)), nil
}
