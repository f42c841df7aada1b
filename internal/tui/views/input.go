// Package views provides the individual views for the TUI.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6384")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	labelFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFCE56")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)
)

// AnalyzeRequestMsg asks the app to run an analysis.
type AnalyzeRequestMsg struct{}

func requestAnalyze() tea.Msg {
	return AnalyzeRequestMsg{}
}

type inputField int

const (
	fieldData inputField = iota
	fieldCategories
)

// InputModel holds the data and category inputs.
type InputModel struct {
	data       textarea.Model
	categories textinput.Model
	focus      inputField

	width  int
	height int
}

// NewInputModel creates the input view with the data field focused.
func NewInputModel() InputModel {
	ta := textarea.New()
	ta.Placeholder = "Paste values separated by spaces, commas or newlines..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(60)
	ta.SetHeight(8)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "e.g. 1-3, <5, ≥10, apple"
	ti.CharLimit = 500
	ti.Width = 58
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCE56"))

	return InputModel{
		data:       ta,
		categories: ti,
		focus:      fieldData,
	}
}

// SetSize updates the view dimensions.
func (m *InputModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	w := max(width-4, 20)
	m.data.SetWidth(w)
	m.data.SetHeight(max(height-12, 3))
	m.categories.Width = w - 2
}

// Values returns the raw data and category text.
func (m InputModel) Values() (data, categories string) {
	return m.data.Value(), m.categories.Value()
}

// SetValues replaces both inputs.
func (m *InputModel) SetValues(data, categories string) {
	m.data.SetValue(data)
	m.categories.SetValue(categories)
}

// SetData replaces the data input and keeps the categories.
func (m *InputModel) SetData(data string) {
	m.data.SetValue(data)
}

func (m *InputModel) setFocus(f inputField) tea.Cmd {
	m.focus = f
	if f == fieldData {
		m.categories.Blur()
		return m.data.Focus()
	}
	m.data.Blur()
	return m.categories.Focus()
}

// Update handles messages.
func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "shift+tab":
			if m.focus == fieldData {
				return m, m.setFocus(fieldCategories)
			}
			return m, m.setFocus(fieldData)
		case "enter":
			if m.focus == fieldCategories {
				return m, requestAnalyze
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldData {
		m.data, cmd = m.data.Update(msg)
	} else {
		m.categories, cmd = m.categories.Update(msg)
	}
	return m, cmd
}

// View renders the input view.
func (m InputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Frequency Analysis"))
	b.WriteString("\n\n")

	dataLabel, catLabel := labelStyle, labelStyle
	if m.focus == fieldData {
		dataLabel = labelFocusedStyle
	} else {
		catLabel = labelFocusedStyle
	}

	b.WriteString(dataLabel.Render("Data"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.data.View()))
	b.WriteString("\n\n")

	b.WriteString(catLabel.Render("Categories (comma separated)"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.categories.View()))
	b.WriteString("\n\n")

	help := helpStyle.Render(strings.Join([]string{
		"tab: switch field",
		"enter/ctrl+r: analyze",
		"ctrl+o: load file",
		"esc: menu",
	}, " • "))
	b.WriteString(help)

	return b.String()
}
