package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/freqtab/internal/chart"
	"github.com/f3rmion/freqtab/internal/clipboard"
	"github.com/f3rmion/freqtab/internal/config"
	"github.com/f3rmion/freqtab/internal/export"
	"github.com/f3rmion/freqtab/internal/freq"
	"github.com/f3rmion/freqtab/internal/logging"
	"github.com/f3rmion/freqtab/internal/tui/views"
)

// MissingInputAlert is shown when data or categories are empty.
const MissingInputAlert = "Please provide data and categories."

// ViewType represents the current active view
type ViewType int

const (
	ViewInput ViewType = iota
	ViewResults
	ViewCharts
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// exportDoneMsg reports the outcome of a clipboard write.
type exportDoneMsg struct {
	target string // "Table", "Bar chart", "Pie chart"
	err    error
}

type clearAckMsg struct{}

// dataLoadedMsg carries the contents of a data file.
type dataLoadedMsg struct {
	path string
	data string
	err  error
}

// MaxDataFileSize caps files loaded into the data input.
const MaxDataFileSize = 8 << 20

func loadDataFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := ReadDataFile(path)
		return dataLoadedMsg{path: path, data: data, err: err}
	}
}

// ReadDataFile reads a data file of at most MaxDataFileSize bytes.
func ReadDataFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, MaxDataFileSize+1))
	if err != nil {
		return "", err
	}
	if len(raw) > MaxDataFileSize {
		return "", fmt.Errorf("%s is larger than %d MiB", filepath.Base(path), MaxDataFileSize>>20)
	}
	return string(raw), nil
}

func clearAckAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearAckMsg{}
	})
}

// AppModel is the main TUI model
type AppModel struct {
	config    *config.Config
	chartOpts chart.Options
	clip      clipboard.Writer
	actions   *Actions
	log       *slog.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	inputView    views.InputModel
	resultsView  views.ResultsModel
	chartsView   views.ChartsModel
	settingsView views.SettingsModel

	// File picker overlay for loading data
	picker  views.FilePickerModel
	picking bool
	lastDir string

	// Analysis state, replaced on every run
	results freq.ResultSet
	charts  *chart.Handles

	// Blocking alert; any key dismisses it
	alert string

	// Export acknowledgment
	ack       string
	ackFailed bool

	showHelp bool
}

// NewApp creates the TUI application. A nil clip uses the system clipboard.
func NewApp(cfg *config.Config, chartOpts chart.Options, clip clipboard.Writer) AppModel {
	if cfg == nil {
		cfg = config.Default()
	}
	if clip == nil {
		clip = clipboard.System{}
	}

	charts := &chart.Handles{}

	return AppModel{
		config:       cfg,
		chartOpts:    chartOpts,
		clip:         clip,
		actions:      DefaultActions(),
		log:          logging.ForComponent("tui"),
		sidebarWidth: 18,
		currentView:  ViewInput,
		menuItems: []MenuItem{
			{Label: "Analyze", View: ViewInput, Shortcut: "1"},
			{Label: "Results", View: ViewResults, Shortcut: "2"},
			{Label: "Charts", View: ViewCharts, Shortcut: "3"},
			{Label: "Settings", View: ViewSettings, Shortcut: "4"},
		},

		inputView:    views.NewInputModel(),
		resultsView:  views.NewResultsModel(),
		chartsView:   views.NewChartsModel(charts),
		settingsView: views.NewSettingsModel(cfg, ""),
		charts:       charts,
	}
}

// SetInput pre-fills the data and category inputs.
func (m *AppModel) SetInput(data, categories string) {
	m.inputView.SetValues(data, categories)
}

// SetConfigDir sets where the settings view saves the config file.
func (m *AppModel) SetConfigDir(dir string) {
	m.settingsView.SetConfigDir(dir)
}

// Config returns the active configuration.
func (m AppModel) Config() *config.Config {
	return m.config
}

// Results returns the current result set.
func (m AppModel) Results() freq.ResultSet {
	return m.results
}

// Charts returns the chart handles owned by the app.
func (m AppModel) Charts() *chart.Handles {
	return m.charts
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Alert and help overlays - any key closes them
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.picking {
			if msg.String() == "esc" {
				m.picking = false
				return m, nil
			}
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		if action, ok := m.actions.Match(msg); ok {
			return m.perform(action)
		}
		if msg.String() == "esc" {
			// Esc goes to the sidebar, or quits from there
			if m.sidebarActive {
				return m, tea.Quit
			}
			m.sidebarActive = true
			return m, nil
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
			case "1", "2", "3", "4":
				m.selectedMenu = int(msg.String()[0] - '1')
				m.currentView = m.menuItems[m.selectedMenu].View
				m.sidebarActive = false
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
			case "enter", "l", "right", "tab":
				m.currentView = m.menuItems[m.selectedMenu].View
				m.sidebarActive = false
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.inputView.SetSize(contentWidth, contentHeight)
		m.resultsView.SetSize(contentWidth, contentHeight)
		m.chartsView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.picker.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.FileSelectedMsg:
		m.picking = false
		return m, loadDataFile(msg.Path)

	case dataLoadedMsg:
		if msg.err != nil {
			m.log.Warn("load failed", "path", msg.path, "err", msg.err)
			m.ack = fmt.Sprintf("Load failed: %v", msg.err)
			m.ackFailed = true
			return m, clearAckAfter(3 * time.Second)
		}
		m.log.Info("loaded data file", "path", msg.path, "bytes", len(msg.data))
		m.inputView.SetData(msg.data)
		m.lastDir = filepath.Dir(msg.path)
		m.currentView = ViewInput
		m.selectedMenu = 0
		m.sidebarActive = false
		m.ack = "Loaded " + filepath.Base(msg.path)
		m.ackFailed = false
		return m, clearAckAfter(2 * time.Second)

	case views.AnalyzeRequestMsg:
		return m.perform(ActionAnalyze)

	case exportDoneMsg:
		if msg.err != nil {
			m.log.Warn("copy failed", "target", msg.target, "err", msg.err)
			m.ack = fmt.Sprintf("Copy failed: %v", msg.err)
			m.ackFailed = true
		} else {
			m.log.Info("copied", "target", msg.target)
			m.ack = msg.target + " copied!"
			m.ackFailed = false
		}
		return m, clearAckAfter(2 * time.Second)

	case views.SettingsChangedMsg:
		m.applySettings(msg.Config)
		return m, nil

	case views.SettingsSavedMsg:
		if msg.Err != nil {
			m.log.Warn("saving settings failed", "path", msg.Path, "err", msg.Err)
			m.ack = fmt.Sprintf("Save failed: %v", msg.Err)
			m.ackFailed = true
		} else {
			m.log.Info("settings saved", "path", msg.Path)
			m.ack = "Settings saved"
			m.ackFailed = false
		}
		return m, clearAckAfter(2 * time.Second)

	case clearAckMsg:
		m.ack = ""
		m.ackFailed = false
		return m, nil
	}

	if _, isKey := msg.(tea.KeyMsg); isKey && !m.sidebarActive && m.currentView == ViewSettings {
		var cmd tea.Cmd
		m.settingsView, cmd = m.settingsView.Update(msg)
		return m, cmd
	}

	// Keys go to the input view only when it has focus; other messages
	// (cursor blink) always reach it.
	if _, isKey := msg.(tea.KeyMsg); !isKey || (!m.sidebarActive && m.currentView == ViewInput) {
		var cmd tea.Cmd
		m.inputView, cmd = m.inputView.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applySettings switches to cfg and recolors existing charts.
func (m *AppModel) applySettings(cfg *config.Config) {
	m.config = cfg
	if bar, err := chart.ParseHex(cfg.BarColor); err == nil {
		m.chartOpts.BarColor = bar
	}
	if m.charts.Ready() {
		m.charts.Redraw(freq.ChartData(m.results), m.chartOpts)
	}
	m.log.Debug("settings changed", "table_format", cfg.TableFormat, "bar_color", cfg.BarColor)
}

// perform runs a registered action.
func (m AppModel) perform(action Action) (tea.Model, tea.Cmd) {
	switch action {
	case ActionAnalyze:
		return m.analyze()
	case ActionCopyTable:
		return m.copyTable()
	case ActionCopyBarChart:
		return m.copyChart(chart.TypeBar, "Bar chart")
	case ActionCopyPieChart:
		return m.copyChart(chart.TypePie, "Pie chart")
	case ActionLoadFile:
		m.picker = views.NewFilePickerModel(m.lastDir)
		m.picker.SetSize(m.width-m.sidebarWidth-4, m.height-2)
		m.picking = true
		return m, nil
	}
	return m, nil
}

// analyze recomputes the results and redraws both charts.
func (m AppModel) analyze() (tea.Model, tea.Cmd) {
	data, categories := m.inputView.Values()

	rs, err := freq.AnalyzeInput(data, categories)
	if err != nil {
		m.log.Debug("analysis rejected", "err", err)
		m.alert = MissingInputAlert
		return m, nil
	}

	m.results = rs
	m.charts.Redraw(freq.ChartData(rs), m.chartOpts)
	m.resultsView.SetResults(rs)

	m.log.Info("analyzed", "categories", len(rs)-1, "total", rs.Total().Frequency)

	m.currentView = ViewResults
	m.selectedMenu = 1
	m.sidebarActive = false
	return m, nil
}

func (m AppModel) copyTable() (tea.Model, tea.Cmd) {
	if len(m.results) == 0 {
		return m, failAck("Table", fmt.Errorf("nothing to copy, run an analysis first"))
	}

	text, err := export.Table(m.results, m.config.Format())
	if err != nil {
		return m, failAck("Table", err)
	}

	clip := m.clip
	return m, func() tea.Msg {
		return exportDoneMsg{target: "Table", err: clip.WriteText(text)}
	}
}

func (m AppModel) copyChart(typ chart.Type, target string) (tea.Model, tea.Cmd) {
	c := m.charts.Get(typ)
	if c == nil {
		return m, failAck(target, fmt.Errorf("nothing to copy, run an analysis first"))
	}

	// Encode now; a later analysis may destroy c before the command runs.
	png, err := c.PNG()
	if err != nil {
		return m, failAck(target, err)
	}

	clip := m.clip
	return m, func() tea.Msg {
		return exportDoneMsg{target: target, err: clip.WriteImage(png)}
	}
}

func failAck(target string, err error) tea.Cmd {
	return func() tea.Msg {
		return exportDoneMsg{target: target, err: err}
	}
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.alert != "" {
		return m.renderAlert()
	}
	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch {
	case m.picking:
		content = m.picker.View()
	case m.currentView == ViewInput:
		content = m.inputView.View()
	case m.currentView == ViewResults:
		content = m.resultsView.View()
	case m.currentView == ViewCharts:
		content = m.chartsView.View()
	case m.currentView == ViewSettings:
		content = m.settingsView.View()
	}

	if m.ack != "" {
		style := CopiedStyle
		if m.ackFailed {
			style = CopyFailedStyle
		}
		content += "\n\n" + style.Render(m.ack)
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render(" freqtab "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				// Indicate current view but not focused
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}

		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	if m.height > usedHeight {
		for i := 0; i < m.height-usedHeight-2; i++ {
			items = append(items, "")
		}
	}

	help := "esc Menu"
	if m.sidebarActive {
		help = "? Help  q Quit"
	}
	items = append(items, SidebarHelpStyle.Render(help))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// renderAlert renders the blocking alert box
func (m AppModel) renderAlert() string {
	body := AlertTitleStyle.Render("Oops") + "\n\n" + m.alert + "\n\n" +
		HelpStyle.Italic(true).Render("Press any key to continue")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, AlertStyle.Render(body))
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(ColorText)

	helpText := titleStyle.Render("freqtab - Frequency Analyzer") + "\n\n"

	helpText += sectionStyle.Render("Actions") + "\n"
	for _, b := range m.actions.Bindings() {
		h := b.Key.Help()
		helpText += keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
	}

	helpText += sectionStyle.Render("Navigation") + "\n"
	helpText += keyStyle.Render("esc") + descStyle.Render("Focus menu") + "\n"
	helpText += keyStyle.Render("1-4") + descStyle.Render("Switch views (menu)") + "\n"
	helpText += keyStyle.Render("tab") + descStyle.Render("Switch input field") + "\n"
	helpText += keyStyle.Render("q ctrl+c") + descStyle.Render("Quit") + "\n"

	helpText += sectionStyle.Render("Categories") + "\n"
	helpText += keyStyle.Render("5") + descStyle.Render("Equal to 5 (5.0, 05 match)") + "\n"
	helpText += keyStyle.Render("1-3") + descStyle.Render("Between 1 and 3") + "\n"
	helpText += keyStyle.Render("<5 >5") + descStyle.Render("Less / greater than 5") + "\n"
	helpText += keyStyle.Render("≤5 ≥5") + descStyle.Render("At most / at least 5") + "\n"
	helpText += keyStyle.Render("apple") + descStyle.Render("Text, case-insensitive") + "\n"

	helpText += "\n" + HelpStyle.Italic(true).Render("Press any key to close")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2).
		Width(50)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(helpText))
}
