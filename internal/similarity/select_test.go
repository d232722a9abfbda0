package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/clarity/internal/logging"
)

func failingTier(name string, err error) Tier {
	return Tier{Name: name, Init: func(context.Context) (Strategy, error) { return nil, err }}
}

func cosineTier(name string, enc Encoder) Tier {
	return Tier{Name: name, Init: func(context.Context) (Strategy, error) { return NewCosine(name, enc), nil }}
}

func TestSelect_FirstSuccessWins(t *testing.T) {
	logger := logging.NewTestLogger()
	sel := Select(context.Background(), logger.Logger,
		cosineTier(NameDense, newBowEncoder("a")),
		failingTier(NameGeneral, errors.New("should not be tried")),
	)

	require.NotNil(t, sel.Strategy)
	assert.Equal(t, NameDense, sel.Strategy.Name())
	require.Len(t, sel.Attempts, 1)
	assert.False(t, sel.Fallback())
	logger.AssertLogged(t, zapcore.InfoLevel, "similarity strategy selected")
	logger.AssertNotLogged(t, zapcore.WarnLevel, "falling back")
}

func TestSelect_FallsBackInOrder(t *testing.T) {
	logger := logging.NewTestLogger()
	denseErr := errors.New("no onnxruntime")
	sel := Select(context.Background(), logger.Logger,
		failingTier(NameDense, denseErr),
		cosineTier(NameGeneral, newBowEncoder("a")),
		LexicalTier(),
	)

	assert.Equal(t, NameGeneral, sel.Strategy.Name())
	require.Len(t, sel.Attempts, 2)
	assert.ErrorIs(t, sel.Attempts[0].Err, denseErr)
	assert.NoError(t, sel.Attempts[1].Err)
	assert.True(t, sel.Fallback())
	logger.AssertLogged(t, zapcore.WarnLevel, "similarity tier unavailable")
	logger.AssertField(t, "similarity tier unavailable, falling back", "tier", NameDense)
}

func TestSelect_AlwaysEndsInLexical(t *testing.T) {
	sel := Select(context.Background(), nil,
		failingTier(NameDense, errors.New("down")),
		failingTier(NameGeneral, errors.New("down")),
	)

	assert.Equal(t, NameLexical, sel.Strategy.Name())
	require.Len(t, sel.Attempts, 3)
	assert.Equal(t, NameLexical, sel.Attempts[2].Name)
}

func TestSelect_NoTiers(t *testing.T) {
	sel := Select(context.Background(), logging.NewNop())
	assert.Equal(t, NameLexical, sel.Strategy.Name())
	assert.False(t, sel.Fallback())
}

func TestSelect_NilAndPanickingInit(t *testing.T) {
	sel := Select(context.Background(), logging.NewNop(),
		Tier{Name: NameDense},
		Tier{Name: NameGeneral, Init: func(context.Context) (Strategy, error) { return nil, nil }},
		Tier{Name: "boom", Init: func(context.Context) (Strategy, error) { panic("native crash") }},
	)

	assert.Equal(t, NameLexical, sel.Strategy.Name())
	require.Len(t, sel.Attempts, 4)
	assert.ErrorIs(t, sel.Attempts[0].Err, ErrNoStrategy)
	assert.ErrorIs(t, sel.Attempts[1].Err, ErrNoStrategy)
	assert.ErrorContains(t, sel.Attempts[2].Err, "panicked")
}
