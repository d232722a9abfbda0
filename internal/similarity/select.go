package similarity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clarity/internal/logging"
)

// ErrNoStrategy is returned when a tier initialiser returns neither a
// strategy nor an error.
var ErrNoStrategy = errors.New("tier returned no strategy")

// Tier is one candidate in the fallback chain.
type Tier struct {
	Name string
	Init func(ctx context.Context) (Strategy, error)
}

// Attempt records the outcome of initialising one tier.
type Attempt struct {
	Name string
	Err  error
}

// Selection is the outcome of Select.
type Selection struct {
	Strategy Strategy
	Attempts []Attempt
}

// Fallback reports whether any preferred tier failed before the chosen one.
func (s Selection) Fallback() bool {
	for _, a := range s.Attempts {
		if a.Err != nil {
			return true
		}
	}
	return false
}

// Select initialises tiers in order and returns the first that succeeds.
// Lexical is appended when the chain does not already end with it, so
// Select always yields a usable strategy.
func Select(ctx context.Context, logger *logging.Logger, tiers ...Tier) Selection {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(tiers) == 0 || tiers[len(tiers)-1].Name != NameLexical {
		tiers = append(tiers, LexicalTier())
	}

	var sel Selection
	for _, tier := range tiers {
		s, err := initTier(ctx, tier)
		sel.Attempts = append(sel.Attempts, Attempt{Name: tier.Name, Err: err})
		if err != nil {
			logger.Warn(ctx, "similarity tier unavailable, falling back",
				zap.String("tier", tier.Name),
				zap.Error(err))
			continue
		}
		sel.Strategy = s
		break
	}

	// The appended lexical tier cannot fail; this only guards custom chains.
	if sel.Strategy == nil {
		sel.Strategy = NewLexical()
	}

	logger.Info(ctx, "similarity strategy selected",
		zap.String("strategy", sel.Strategy.Name()),
		zap.Bool("fallback", sel.Fallback()))
	return sel
}

func initTier(ctx context.Context, tier Tier) (s Strategy, err error) {
	if tier.Init == nil {
		return nil, fmt.Errorf("%s: %w", tier.Name, ErrNoStrategy)
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%s: init panicked: %v", tier.Name, r)
		}
	}()
	s, err = tier.Init(ctx)
	if err == nil && s == nil {
		err = fmt.Errorf("%s: %w", tier.Name, ErrNoStrategy)
	}
	return s, err
}

// LexicalTier is the terminal tier of every chain.
func LexicalTier() Tier {
	return Tier{
		Name: NameLexical,
		Init: func(context.Context) (Strategy, error) { return NewLexical(), nil },
	}
}
