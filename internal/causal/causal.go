// Package causal holds the static table of explanations for categories that
// tend to co-occur. Lookups ignore pair orientation.
package causal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicatePair is returned when two entries name the same unordered pair.
	ErrDuplicatePair = errors.New("duplicate causal pair")

	// ErrInvalidEntry is returned for entries with a blank name or explanation,
	// or a category paired with itself.
	ErrInvalidEntry = errors.New("invalid causal entry")
)

// Pair is an unordered pair of category names, normalised so A <= B.
type Pair struct {
	A, B string
}

// NewPair normalises a and b into a Pair.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Entry is one row of the table as registered.
type Entry struct {
	A           string `yaml:"a" json:"a"`
	B           string `yaml:"b" json:"b"`
	Explanation string `yaml:"explanation" json:"explanation"`
}

// Link is a resolved lookup. A and B keep the registered orientation.
type Link struct {
	A           string `json:"a"`
	B           string `json:"b"`
	Explanation string `json:"explanation"`
}

// String renders the link as "A + B: explanation".
func (l Link) String() string {
	return l.A + " + " + l.B + ": " + l.Explanation
}

// Map is an immutable unordered-pair lookup table.
type Map struct {
	links map[Pair]Link
	order []Pair
}

// New builds a Map from entries, rejecting duplicates and malformed rows.
func New(entries ...Entry) (*Map, error) {
	m := &Map{
		links: make(map[Pair]Link, len(entries)),
		order: make([]Pair, 0, len(entries)),
	}
	for i, e := range entries {
		a := strings.TrimSpace(e.A)
		b := strings.TrimSpace(e.B)
		text := strings.TrimSpace(e.Explanation)
		if a == "" || b == "" || text == "" || a == b {
			return nil, fmt.Errorf("%w: entry %d (%q, %q)", ErrInvalidEntry, i, e.A, e.B)
		}
		key := NewPair(a, b)
		if prev, ok := m.links[key]; ok {
			return nil, fmt.Errorf("%w: %s + %s already registered as %s + %s", ErrDuplicatePair, a, b, prev.A, prev.B)
		}
		m.links[key] = Link{A: a, B: b, Explanation: text}
		m.order = append(m.order, key)
	}
	return m, nil
}

// Lookup returns the link for {a, b} in either order. Matching is exact.
func (m *Map) Lookup(a, b string) (Link, bool) {
	if m == nil {
		return Link{}, false
	}
	l, ok := m.links[NewPair(a, b)]
	return l, ok
}

// Len returns the number of pairs.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.links)
}

// Entries returns the table in registration order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, len(m.order))
	for _, key := range m.order {
		l := m.links[key]
		out = append(out, Entry{A: l.A, B: l.B, Explanation: l.Explanation})
	}
	return out
}

// Categories returns every category name that appears in the table.
func (m *Map) Categories() map[string]struct{} {
	out := make(map[string]struct{})
	if m == nil {
		return out
	}
	for key := range m.links {
		out[key.A] = struct{}{}
		out[key.B] = struct{}{}
	}
	return out
}
