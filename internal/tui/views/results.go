package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/f3rmion/freqtab/internal/export"
	"github.com/f3rmion/freqtab/internal/freq"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				Bold(true).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee")).
			Padding(0, 1)

	tableTotalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCE56")).
			Bold(true).
			Padding(0, 1)

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3d5a80"))
)

// ResultsModel shows the result table.
type ResultsModel struct {
	results freq.ResultSet

	width  int
	height int
}

// NewResultsModel creates an empty results view.
func NewResultsModel() ResultsModel {
	return ResultsModel{}
}

// SetSize updates the view dimensions.
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetResults replaces the displayed results.
func (m *ResultsModel) SetResults(rs freq.ResultSet) {
	m.results = rs
}

// RenderTable draws a result set, Total row included.
func RenderTable(rs freq.ResultSet) string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{r.Category, strconv.Itoa(r.Frequency), r.Percentage})
	}
	last := len(rows) - 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(export.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row == last:
				return tableTotalStyle
			case col > 0:
				return tableCellStyle.Align(lipgloss.Right)
			default:
				return tableCellStyle
			}
		})

	return t.Render()
}

// View renders the results view.
func (m ResultsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Results"))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString(helpStyle.Render("No analysis yet. Enter data and categories, then press ctrl+r."))
		return b.String()
	}

	b.WriteString(RenderTable(m.results))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("ctrl+t: copy table • ctrl+b: copy bar chart • ctrl+p: copy pie chart"))

	return b.String()
}
