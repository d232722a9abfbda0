package engine

import (
	"errors"

	"github.com/fyrsmithlabs/clarity/internal/causal"
)

// InvalidScenarioMessage is the Error text for rejected input.
const InvalidScenarioMessage = "Invalid scenario input."

// ErrInvalidScenario is returned by Result.Err for rejected input.
var ErrInvalidScenario = errors.New(InvalidScenarioMessage)

// ScoredCategory is a category with its similarity score.
type ScoredCategory struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Result is the outcome of one analysis. Check Error (or Err) before reading
// the other fields.
type Result struct {
	Scenario           string           `json:"scenario,omitempty"`
	TopCategories      []ScoredCategory `json:"top_categories"`
	CausalExplanations []string         `json:"causal_explanations"`
	CausalLinks        []causal.Link    `json:"causal_links"`
	Model              string           `json:"model,omitempty"`
	Strategy           string           `json:"strategy,omitempty"`
	Error              string           `json:"error,omitempty"`
}

func invalidResult() Result {
	return Result{
		TopCategories:      []ScoredCategory{},
		CausalExplanations: []string{},
		CausalLinks:        []causal.Link{},
		Error:              InvalidScenarioMessage,
	}
}

// Err returns ErrInvalidScenario for an error result, otherwise nil.
func (r Result) Err() error {
	if r.Error != "" {
		return ErrInvalidScenario
	}
	return nil
}

// Linked reports whether category appears in any causal link of r.
func (r Result) Linked(category string) bool {
	for _, l := range r.CausalLinks {
		if l.A == category || l.B == category {
			return true
		}
	}
	return false
}
