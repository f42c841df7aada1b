package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/freqtab/internal/chart"
)

var chartTitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#4ecdc4")).
	Bold(true).
	MarginBottom(1)

// ChartsModel shows the bar and pie charts held by the app's handles.
type ChartsModel struct {
	charts *chart.Handles

	width  int
	height int
}

// NewChartsModel creates a charts view over caller-owned handles.
func NewChartsModel(charts *chart.Handles) ChartsModel {
	return ChartsModel{charts: charts}
}

// SetSize updates the view dimensions.
func (m *ChartsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders both charts, side by side when there is room.
func (m ChartsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Charts"))
	b.WriteString("\n\n")

	if m.charts == nil || !m.charts.Ready() {
		b.WriteString(helpStyle.Render("No charts yet. Run an analysis first."))
		return b.String()
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	sideBySide := width >= 90
	chartW := width
	if sideBySide {
		chartW = width/2 - 2
	}

	bar, err := m.charts.Bar.Text(chartW)
	if err != nil {
		bar = err.Error()
	}
	pie, err := m.charts.Pie.Text(chartW)
	if err != nil {
		pie = err.Error()
	}

	barBlock := lipgloss.JoinVertical(lipgloss.Left, chartTitleStyle.Render("Frequency"), bar)
	pieBlock := lipgloss.JoinVertical(lipgloss.Left, chartTitleStyle.Render("Percentage"), pie)

	if sideBySide {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(chartW).Render(barBlock), "    ", pieBlock))
	} else {
		b.WriteString(barBlock)
		b.WriteString("\n\n")
		b.WriteString(pieBlock)
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("ctrl+b: copy bar chart • ctrl+p: copy pie chart"))

	return b.String()
}
