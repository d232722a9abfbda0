package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/clarity/internal/causal"
	"github.com/fyrsmithlabs/clarity/internal/dataset"
	"github.com/fyrsmithlabs/clarity/internal/engine"
	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/similarity"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	table := dataset.NewKeywordTable(
		dataset.Category{Name: "ethics", Keywords: []string{"fairness", "bias"}},
		dataset.Category{Name: "security", Keywords: []string{"breach"}},
	)
	e, err := engine.New(engine.DefaultConfig(), table, causal.Default(), similarity.NewLexical())
	require.NoError(t, err)
	return NewModel(context.Background(), e, similarity.NameLexical)
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(t)
	assert.NotNil(t, m.Init())
	assert.False(t, m.quitting)
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newTestModel(t)
		updated, cmd := m.Update(tea.KeyMsg{Type: key})
		assert.True(t, updated.(Model).quitting)
		assert.NotNil(t, cmd)
	}
}

func TestModel_ExitWords(t *testing.T) {
	for _, word := range []string{"exit", "QUIT", " Exit "} {
		m := typeText(newTestModel(t), word)
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, updated.(Model).quitting, word)
		assert.NotNil(t, cmd)
		assert.Contains(t, updated.View(), "Goodbye")
	}
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, updated.(Model).busy)
}

func TestModel_AnalyzeRoundTrip(t *testing.T) {
	m := typeText(newTestModel(t), "A fairness breach occurred")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "Analyzing...")

	msg := cmd()
	res, ok := msg.(resultMsg)
	require.True(t, ok)
	assert.Len(t, res.result.TopCategories, 2)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.busy)
	assert.Equal(t, 1, m.analyzed)
	assert.Equal(t, []float64{1.0}, m.history)

	view := m.View()
	assert.Contains(t, view, "--- ClarityAI Explanation ---")
	assert.Contains(t, view, "security + ethics")
	assert.Contains(t, view, "analyses: 1")
}

func TestModel_ErrorResult(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(resultMsg{result: engine.Result{Error: engine.InvalidScenarioMessage}})
	m = updated.(Model)
	assert.Empty(t, m.history)
	assert.Contains(t, m.View(), engine.InvalidScenarioMessage)
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, updated.(Model).width)
}

func TestAnalyze_SetsRequestID(t *testing.T) {
	var seen string
	a := analyzerFunc(func(ctx context.Context, s string) engine.Result {
		seen = logging.RequestIDFromContext(ctx)
		return engine.Result{Scenario: s}
	})
	msg := analyze(context.Background(), a, "x")()
	assert.Equal(t, "x", msg.(resultMsg).result.Scenario)
	assert.Len(t, seen, 36)
}

func TestAnalyze_LogsThroughContextLogger(t *testing.T) {
	logger := logging.NewTestLogger()
	ctx := logging.WithLogger(context.Background(), logger.Logger)
	a := analyzerFunc(func(_ context.Context, s string) engine.Result {
		return engine.Result{Error: engine.InvalidScenarioMessage}
	})

	analyze(ctx, a, " ")()
	logger.AssertLogged(t, zapcore.DebugLevel, "interactive analysis")
	logger.AssertField(t, "interactive analysis", "invalid", true)
}

func TestAppendToHistory(t *testing.T) {
	var h []float64
	for i := 0; i < historySize+5; i++ {
		h = appendToHistory(h, float64(i))
	}
	assert.Len(t, h, historySize)
	assert.Equal(t, 5.0, h[0])
}

func TestCreateSparkline(t *testing.T) {
	assert.Contains(t, createSparkline(nil), "no analyses yet")
	assert.NotEmpty(t, createSparkline([]float64{0.2, 0.8, 0.5}))
}

type analyzerFunc func(ctx context.Context, s string) engine.Result

func (f analyzerFunc) Analyze(ctx context.Context, s string) engine.Result { return f(ctx, s) }
