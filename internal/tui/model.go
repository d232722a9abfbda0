// Package tui is the interactive terminal front end: type a scenario, press
// enter, read the explanation and chart underneath.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clarity/internal/engine"
	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/render"
)

const (
	sparklineWidth  = 30
	sparklineHeight = 3
	historySize     = 30
	defaultWidth    = 80
)

// Analyzer is satisfied by *engine.Engine.
type Analyzer interface {
	Analyze(ctx context.Context, scenario string) engine.Result
}

// Model is the bubbletea model for interactive mode.
type Model struct {
	ctx      context.Context
	analyzer Analyzer
	strategy string

	input    textinput.Model
	result   *engine.Result
	history  []float64
	analyzed int
	busy     bool
	width    int
	quitting bool
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

// NewModel creates the interactive model. strategy is shown in the header.
func NewModel(ctx context.Context, analyzer Analyzer, strategy string) Model {
	in := textinput.New()
	in.Placeholder = "Describe a scenario, or type exit"
	in.Prompt = "> "
	in.CharLimit = 2000
	in.Width = defaultWidth - 4
	in.Focus()

	return Model{
		ctx:      ctx,
		analyzer: analyzer,
		strategy: strategy,
		input:    in,
		history:  make([]float64, 0, historySize),
		width:    defaultWidth,
	}
}

type resultMsg struct {
	result engine.Result
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func analyze(ctx context.Context, a Analyzer, scenario string) tea.Cmd {
	return func() tea.Msg {
		ctx := logging.WithRequestID(ctx, uuid.NewString())
		res := a.Analyze(ctx, scenario)
		logging.FromContext(ctx).Debug(ctx, "interactive analysis",
			zap.Int("categories", len(res.TopCategories)),
			zap.Bool("invalid", res.Error != ""))
		return resultMsg{result: res}
	}
}

// isExitWord reports whether the input asks to leave interactive mode.
func isExitWord(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exit", "quit":
		return true
	}
	return false
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if isExitWord(value) {
				m.quitting = true
				return m, tea.Quit
			}
			if value == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.input.Reset()
			return m, analyze(m.ctx, m.analyzer, value)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case resultMsg:
		r := msg.result
		m.result = &r
		m.busy = false
		m.analyzed++
		if r.Error == "" {
			top := 0.0
			if len(r.TopCategories) > 0 {
				top = r.TopCategories[0].Score
			}
			m.history = appendToHistory(m.history, top)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// appendToHistory appends a value to history, maintaining max size
func appendToHistory(history []float64, value float64) []float64 {
	history = append(history, value)
	if len(history) > historySize {
		history = history[1:]
	}
	return history
}

func createSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%-*s", sparklineWidth, "no analyses yet"))
	}
	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Exiting ClarityAI. Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(" ClarityAI Interactive Mode "))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("strategy: %s   analyses: %d", m.strategy, m.analyzed)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString(dimStyle.Render("Analyzing..."))
		b.WriteString("\n")
	}

	if m.result != nil {
		r := *m.result
		if r.Error != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render("⚠ " + r.Error))
			b.WriteString("\n")
		} else {
			var text strings.Builder
			_ = render.Text(&text, r)
			b.WriteString(text.String())
			b.WriteString(render.Chart(r, m.width-2))
		}
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("┃ Top score history"))
	b.WriteString("\n")
	b.WriteString(createSparkline(m.history))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("[enter] analyze  [esc] quit  type exit or quit to leave"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the program on the terminal.
func Run(ctx context.Context, analyzer Analyzer, strategy string) error {
	p := tea.NewProgram(NewModel(ctx, analyzer, strategy), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
