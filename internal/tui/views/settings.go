package views

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/freqtab/internal/chart"
	"github.com/f3rmion/freqtab/internal/config"
	"github.com/f3rmion/freqtab/internal/export"
)

var (
	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)

	settingsHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc"))

	settingsRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	settingsSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFCE56")).
				Background(lipgloss.Color("#2d3436"))

	settingsMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))
)

// SettingsChangedMsg carries the edited configuration.
type SettingsChangedMsg struct {
	Config *config.Config
}

// SettingsSavedMsg reports the outcome of writing the config file.
type SettingsSavedMsg struct {
	Path string
	Err  error
}

// logLevels are the levels offered in the settings view.
var logLevels = []string{"debug", "info", "warn", "error"}

type setting int

const (
	settingTableFormat setting = iota
	settingBarColor
	settingLogLevel
	settingCount
)

// SettingsModel edits the settings that can be changed at runtime.
type SettingsModel struct {
	config    *config.Config
	configDir string
	selected  setting

	width  int
	height int
}

// NewSettingsModel creates the settings view over a copy of cfg. Saving
// writes to configDir.
func NewSettingsModel(cfg *config.Config, configDir string) SettingsModel {
	c := *cfg
	c.PiePalette = slices.Clone(cfg.PiePalette)
	return SettingsModel{
		config:    &c,
		configDir: configDir,
	}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetConfigDir changes where the config is saved.
func (m *SettingsModel) SetConfigDir(dir string) {
	m.configDir = dir
}

// Config returns the edited configuration.
func (m SettingsModel) Config() *config.Config {
	return m.config
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k.String() {
	case "j", "down":
		m.selected = (m.selected + 1) % settingCount
	case "k", "up":
		m.selected = (m.selected + settingCount - 1) % settingCount
	case "l", "right", "enter", " ":
		return m.cycle(1)
	case "h", "left":
		return m.cycle(-1)
	case "s":
		return m, m.save()
	}
	return m, nil
}

// cycle moves the selected setting to its next or previous value.
func (m SettingsModel) cycle(step int) (SettingsModel, tea.Cmd) {
	c := *m.config
	switch m.selected {
	case settingTableFormat:
		formats := make([]string, len(export.Formats))
		for i, f := range export.Formats {
			formats[i] = string(f)
		}
		c.TableFormat = next(formats, c.TableFormat, step)
	case settingBarColor:
		colors := make([]string, len(chart.DefaultPalette))
		for i, p := range chart.DefaultPalette {
			colors[i] = chart.Hex(p)
		}
		c.BarColor = next(colors, strings.ToLower(c.BarColor), step)
	case settingLogLevel:
		c.Log.Level = next(logLevels, strings.ToLower(c.Log.Level), step)
	}
	m.config = &c

	changed := m.config
	return m, func() tea.Msg {
		return SettingsChangedMsg{Config: changed}
	}
}

// next returns the value step positions from cur, or the first value if
// cur is not among values.
func next(values []string, cur string, step int) string {
	i := slices.Index(values, cur)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+step)%n+n)%n]
}

func (m SettingsModel) save() tea.Cmd {
	cfg, dir := m.config, m.configDir
	return func() tea.Msg {
		path := filepath.Join(dir, config.FileName)
		if dir == "" {
			return SettingsSavedMsg{Err: fmt.Errorf("no config directory")}
		}
		if err := config.EnsureConfigDir(dir); err != nil {
			return SettingsSavedMsg{Path: path, Err: err}
		}
		return SettingsSavedMsg{Path: path, Err: config.Save(path, cfg)}
	}
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")
	if m.configDir != "" {
		b.WriteString(settingsPathStyle.Render("Config: " + filepath.Join(m.configDir, config.FileName)))
		b.WriteString("\n\n")
	}

	b.WriteString(settingsHeaderStyle.Render("Editable"))
	b.WriteString("\n")

	swatch := func(hex string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
	}
	rows := []struct {
		name, value string
	}{
		{"Table format", m.config.TableFormat},
		{"Bar color", swatch(m.config.BarColor) + " " + m.config.BarColor},
		{"Log level", m.config.Log.Level},
	}
	for i, r := range rows {
		prefix, style := "  ", settingsRowStyle
		if setting(i) == m.selected {
			prefix, style = "> ", settingsSelectedStyle
		}
		b.WriteString(prefix + style.Render(fmt.Sprintf("%-14s", r.name)) + " ‹ " + r.value + " ›\n")
	}

	b.WriteString("\n")
	b.WriteString(settingsHeaderStyle.Render("From config file"))
	b.WriteString("\n")

	var palette []string
	for _, hex := range m.config.PiePalette {
		palette = append(palette, swatch(hex))
	}
	font := m.config.Chart.Font
	if font == "" {
		font = "(system default)"
	}
	fixed := [][2]string{
		{"Pie palette", strings.Join(palette, " ")},
		{"Chart size", fmt.Sprintf("%dx%d", m.config.Chart.Width, m.config.Chart.Height)},
		{"Font", fmt.Sprintf("%s %gpt", font, m.config.Chart.FontSize)},
		{"Log format", m.config.Log.Format},
	}
	for _, r := range fixed {
		b.WriteString("  " + settingsMutedStyle.Render(fmt.Sprintf("%-14s", r[0])) + "   " + r[1] + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: select • h/l: change • s: save • esc: menu"))

	return b.String()
}
