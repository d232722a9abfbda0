// Package render formats analysis results for terminals and pipes.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fyrsmithlabs/clarity/internal/engine"
)

// Text writes the explanation block for r.
func Text(w io.Writer, r engine.Result) error {
	var b strings.Builder
	b.WriteString("\n--- ClarityAI Explanation ---\n")
	if r.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
		b.WriteString("--- End Explanation ---\n\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Scenario:\n%s\n\n", r.Scenario)
	b.WriteString("Top categories (category: score):\n")
	if len(r.TopCategories) == 0 {
		b.WriteString(" - (no relevant categories detected)\n")
	}
	for _, c := range r.TopCategories {
		fmt.Fprintf(&b, " - %s: %.3f\n", c.Category, c.Score)
	}

	b.WriteString("\nCausal explanations:\n")
	if len(r.CausalExplanations) == 0 {
		b.WriteString(" - (none found)\n")
	}
	for _, e := range r.CausalExplanations {
		fmt.Fprintf(&b, " - %s\n", e)
	}

	fmt.Fprintf(&b, "\nEngine model: %s\n", r.Model)
	b.WriteString("--- End Explanation ---\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// CausalList writes the bare list of causal explanations.
func CausalList(w io.Writer, r engine.Result) error {
	if len(r.CausalExplanations) == 0 {
		_, err := io.WriteString(w, "No causal explanations found.\n")
		return err
	}
	var b strings.Builder
	b.WriteString("\nCausal Explanations:\n")
	for _, e := range r.CausalExplanations {
		fmt.Fprintf(&b, " - %s\n", e)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes r as indented JSON.
func JSON(w io.Writer, r engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
