package render

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/clarity/internal/engine"
)

const (
	// NoCategoriesMessage is rendered in place of an empty chart.
	NoCategoriesMessage = "No categories to plot."

	chartTitle    = "Top Categories (orange = causal pair)"
	chartXLabel   = "Similarity Score"
	minChartWidth = 20
	barThickness  = 1
	barGap        = 1
)

// Bar colours match the original matplotlib palette.
var (
	causalColor = lipgloss.Color("214") // orange
	plainColor  = lipgloss.Color("117") // sky blue

	causalStyle = lipgloss.NewStyle().Foreground(causalColor)
	plainStyle  = lipgloss.NewStyle().Foreground(plainColor)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func barStyle(r engine.Result, category string) lipgloss.Style {
	if r.Linked(category) {
		return causalStyle
	}
	return plainStyle
}

// Chart draws a horizontal bar per top category, highest score on top, with
// the value axis fixed to [0, 1]. Widths below minChartWidth get Bars.
func Chart(r engine.Result, width int) string {
	if r.Error != "" || len(r.TopCategories) == 0 {
		return dimStyle.Render(NoCategoriesMessage) + "\n"
	}
	if width < minChartWidth {
		return Bars(r, width)
	}

	data := make([]barchart.BarData, 0, len(r.TopCategories))
	for _, c := range r.TopCategories {
		data = append(data, barchart.BarData{
			Label: c.Category,
			Values: []barchart.BarValue{{
				Name:  c.Category,
				Value: c.Score,
				Style: barStyle(r, c.Category),
			}},
		})
	}

	height := len(data)*(barThickness+barGap) + 1
	bc := barchart.New(width, height,
		barchart.WithDataSet(data),
		barchart.WithMaxValue(1),
		barchart.WithNoAutoMaxValue(),
		barchart.WithHorizontalBars(),
		barchart.WithBarGap(barGap),
	)
	bc.Draw()

	var b strings.Builder
	b.WriteString(titleStyle.Render(chartTitle))
	b.WriteString("\n")
	b.WriteString(bc.View())
	b.WriteString("\n")
	b.WriteString(axisStyle.Render(fmt.Sprintf("%s  0.0 .. 1.0", chartXLabel)))
	b.WriteString("\n")
	return b.String()
}

// Bars renders one progress bar per top category with its score. Chart
// uses it where the bar chart does not fit.
func Bars(r engine.Result, width int) string {
	if r.Error != "" || len(r.TopCategories) == 0 {
		return dimStyle.Render(NoCategoriesMessage) + "\n"
	}

	labelWidth := 0
	for _, c := range r.TopCategories {
		if n := lipgloss.Width(c.Category); n > labelWidth {
			labelWidth = n
		}
	}
	barWidth := width - labelWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	for _, c := range r.TopCategories {
		color := string(plainColor)
		if r.Linked(c.Category) {
			color = string(causalColor)
		}
		bar := progress.New(
			progress.WithSolidFill(color),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		)
		fmt.Fprintf(&b, "%-*s %s %.3f\n", labelWidth, c.Category, bar.ViewAs(c.Score), c.Score)
	}
	return b.String()
}
