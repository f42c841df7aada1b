package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileSelectedMsg is sent when a data file is chosen.
type FileSelectedMsg struct {
	Path string
}

// DataExtensions are the file types listed by default.
var DataExtensions = []string{".txt", ".csv", ".tsv", ".dat", ".log"}

var (
	fpPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	fpDirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	fpFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	fpSelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFCE56")).
			Background(lipgloss.Color("#2d3436"))

	fpErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6384")).
			Bold(true)

	fpRuleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3d5a80"))
)

// FileEntry is a file or directory in the picker.
type FileEntry struct {
	Name  string
	IsDir bool
	Path  string
}

// FilePickerModel browses the filesystem for a data file.
type FilePickerModel struct {
	dir      string
	entries  []FileEntry
	selected int
	offset   int

	// extensions filters files; showAll lists every file
	extensions []string
	showAll    bool

	err error

	width  int
	height int
}

// NewFilePickerModel opens a picker in dir, or the working directory if
// dir is empty.
func NewFilePickerModel(dir string) FilePickerModel {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}
	if dir == "" {
		dir = string(filepath.Separator)
	}

	m := FilePickerModel{
		dir:        dir,
		extensions: DataExtensions,
	}
	m.load()
	return m
}

// Dir returns the directory being listed.
func (m FilePickerModel) Dir() string {
	return m.dir
}

// Entries returns the listed entries, parent first, then directories, then files.
func (m FilePickerModel) Entries() []FileEntry {
	return m.entries
}

// Err returns the error from listing the current directory.
func (m FilePickerModel) Err() error {
	return m.err
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *FilePickerModel) load() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	dirEntries, err := os.ReadDir(m.dir)
	if err != nil {
		m.err = err
		return
	}

	if parent := filepath.Dir(m.dir); parent != m.dir {
		m.entries = append(m.entries, FileEntry{Name: "..", IsDir: true, Path: parent})
	}

	var dirs, files []FileEntry
	for _, e := range dirEntries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		fe := FileEntry{
			Name:  e.Name(),
			IsDir: e.IsDir(),
			Path:  filepath.Join(m.dir, e.Name()),
		}
		switch {
		case fe.IsDir:
			dirs = append(dirs, fe)
		case m.showAll || m.matches(fe.Name):
			files = append(files, fe)
		}
	}

	byName := func(list []FileEntry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m *FilePickerModel) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (m *FilePickerModel) open(dir string) {
	m.dir = dir
	m.load()
}

// Update handles messages. Esc is left to the caller.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k.String() {
	case "j", "down":
		if m.selected < len(m.entries)-1 {
			m.selected++
			m.scroll()
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.scroll()
		}
	case "enter", "l", "right":
		if m.selected < len(m.entries) {
			entry := m.entries[m.selected]
			if entry.IsDir {
				m.open(entry.Path)
				return m, nil
			}
			return m, func() tea.Msg {
				return FileSelectedMsg{Path: entry.Path}
			}
		}
	case "backspace", "h":
		if parent := filepath.Dir(m.dir); parent != m.dir {
			m.open(parent)
		}
	case "~":
		if home, _ := os.UserHomeDir(); home != "" {
			m.open(home)
		}
	case "a":
		m.showAll = !m.showAll
		m.load()
	case "g":
		m.selected = 0
		m.offset = 0
	case "G":
		m.selected = max(len(m.entries)-1, 0)
		m.scroll()
	}

	return m, nil
}

func (m *FilePickerModel) visibleRows() int {
	return max(m.height-8, 5)
}

func (m *FilePickerModel) scroll() {
	rows := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
}

// View renders the picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Load Data File"))
	b.WriteString("\n\n")
	b.WriteString(fpPathStyle.Render(m.dir))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(fpErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	rule := fpRuleStyle.Render(strings.Repeat("─", max(min(m.width-4, 60), 10)))
	b.WriteString(rule)
	b.WriteString("\n")

	if len(m.entries) == 0 && m.err == nil {
		b.WriteString(helpStyle.Render("  (empty)"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleRows(), len(m.entries))
	for i := m.offset; i < end; i++ {
		entry := m.entries[i]

		line := "[FILE] " + entry.Name
		style := fpFileStyle
		if entry.IsDir {
			line = "[DIR]  " + entry.Name
			style = fpDirStyle
		}

		prefix := "  "
		if i == m.selected {
			prefix = "> "
			style = fpSelectedStyle
		}
		b.WriteString(prefix + style.Render(line) + "\n")
	}

	b.WriteString(rule)
	b.WriteString("\n")

	filter := "a: show all files"
	if m.showAll {
		filter = fmt.Sprintf("a: only %s", strings.Join(m.extensions, " "))
	}
	b.WriteString(helpStyle.Render(strings.Join([]string{
		"enter: select",
		"backspace: parent",
		"~: home",
		filter,
		"esc: cancel",
	}, " • ")))

	return b.String()
}
