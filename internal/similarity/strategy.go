package similarity

import "context"

// Strategy names.
const (
	NameDense   = "dense"
	NameGeneral = "general"
	NameLexical = "lexical"
)

// Strategy computes a similarity score in [0, 1] between a scenario and a
// category's keyword list. Empty scenario or keywords score 0 with no error.
type Strategy interface {
	Name() string
	Similarity(ctx context.Context, scenario string, keywords []string) (float64, error)
}

// Closer is implemented by strategies that hold native resources.
type Closer interface {
	Close() error
}

// Close releases s if it holds resources.
func Close(s Strategy) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
