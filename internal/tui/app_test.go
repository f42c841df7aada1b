package tui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/freqtab/internal/chart"
	"github.com/f3rmion/freqtab/internal/clipboard"
	"github.com/f3rmion/freqtab/internal/config"
	"github.com/f3rmion/freqtab/internal/tui/views"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func newTestApp(t *testing.T) (AppModel, *clipboard.Memory) {
	t.Helper()
	mem := &clipboard.Memory{}
	m := NewApp(config.Default(), chart.Options{Width: 200, Height: 120}, mem)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, mem
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, want AppModel", next)
	}
	return app, cmd
}

// press sends a key and feeds the resulting message back, the way the
// bubbletea runtime would for a single command.
func press(t *testing.T, m AppModel, k tea.KeyMsg) AppModel {
	t.Helper()
	m, cmd := update(t, m, k)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			if _, isTick := msg.(clearAckMsg); !isTick {
				m, _ = update(t, m, msg)
			}
		}
	}
	return m
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAnalyze(t *testing.T) {
	m, _ := newTestApp(t)
	m.SetInput("1 2 3 10 apple", "1-3,<5,Apple")

	m = press(t, m, keyMsg(tea.KeyCtrlR))

	rs := m.Results()
	if len(rs) != 4 {
		t.Fatalf("got %d rows, want 4", len(rs))
	}
	if rs[0].Frequency != 3 || rs[1].Frequency != 3 || rs[2].Frequency != 1 || rs.Total().Frequency != 7 {
		t.Errorf("unexpected results %+v", rs)
	}
	if !m.Charts().Ready() {
		t.Error("charts not drawn")
	}
	if got := m.Charts().Bar.Series().Len(); got != 3 {
		t.Errorf("bar chart has %d points, want 3 (Total excluded)", got)
	}
	if m.currentView != ViewResults {
		t.Errorf("view = %v, want results", m.currentView)
	}

	out := m.View()
	for _, want := range []string{"60.00%", "Total", "100%"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAnalyzeMissingInput(t *testing.T) {
	tests := []struct {
		name       string
		data, cats string
	}{
		{"nothing", "", ""},
		{"no categories", "1 2 3", "  "},
		{"no data", "\n", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestApp(t)
			m.SetInput(tt.data, tt.cats)
			m = press(t, m, keyMsg(tea.KeyCtrlR))

			if m.alert != MissingInputAlert {
				t.Fatalf("alert = %q, want %q", m.alert, MissingInputAlert)
			}
			if m.Results() != nil || m.Charts().Ready() {
				t.Error("analysis ran despite missing input")
			}
			if !strings.Contains(m.View(), MissingInputAlert) {
				t.Error("alert not rendered")
			}

			// The alert blocks until a key is pressed.
			m = press(t, m, runes("x"))
			if m.alert != "" {
				t.Error("alert not dismissed")
			}
		})
	}
}

func TestAnalyzeReplacesCharts(t *testing.T) {
	m, _ := newTestApp(t)
	m.SetInput("1 2 3", "1,2")
	m = press(t, m, keyMsg(tea.KeyCtrlR))
	oldBar, oldPie := m.Charts().Bar, m.Charts().Pie

	m.SetInput("a b c d", "a")
	m = press(t, m, keyMsg(tea.KeyCtrlR))

	if !oldBar.Destroyed() || !oldPie.Destroyed() {
		t.Error("previous charts still alive")
	}
	if got := m.Charts().Pie.Series().Labels; len(got) != 1 || got[0] != "a" {
		t.Errorf("pie labels = %q, want [a]", got)
	}
	if len(m.Results()) != 2 {
		t.Errorf("got %d rows, want 2", len(m.Results()))
	}
}

func TestEnterInCategoriesAnalyzes(t *testing.T) {
	m, _ := newTestApp(t)
	m.SetInput("x y x", "x")

	m, _ = update(t, m, keyMsg(tea.KeyTab))
	m, cmd := update(t, m, keyMsg(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	msg := cmd()
	if _, ok := msg.(views.AnalyzeRequestMsg); !ok {
		t.Fatalf("enter produced %T, want AnalyzeRequestMsg", msg)
	}
	m, _ = update(t, m, msg)

	if rs := m.Results(); len(rs) != 2 || rs[0].Frequency != 2 || rs[0].Percentage != "66.67%" {
		t.Errorf("unexpected results %+v", rs)
	}
}

func TestCopyTable(t *testing.T) {
	m, mem := newTestApp(t)
	m.SetInput("1 2 3 10 apple", "1-3,<5,Apple")
	m = press(t, m, keyMsg(tea.KeyCtrlR))
	m = press(t, m, keyMsg(tea.KeyCtrlT))

	if m.ack != "Table copied!" || m.ackFailed {
		t.Errorf("ack = %q (failed %v), want success", m.ack, m.ackFailed)
	}
	if !strings.Contains(mem.Text, "<td>Total</td>") {
		t.Errorf("clipboard = %q, want html table", mem.Text)
	}
}

func TestCopyTableFormat(t *testing.T) {
	mem := &clipboard.Memory{}
	cfg := config.Default()
	cfg.TableFormat = "csv"
	m := NewApp(cfg, chart.Options{Width: 200, Height: 120}, mem)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m.SetInput("a b", "a")
	m = press(t, m, keyMsg(tea.KeyCtrlR))
	m = press(t, m, keyMsg(tea.KeyCtrlT))

	want := "Category,Frequency,Percentage\na,1,50.00%\nTotal,1,100%\n"
	if mem.Text != want {
		t.Errorf("clipboard = %q, want %q", mem.Text, want)
	}
}

func TestCopyCharts(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyType
		ack  string
	}{
		{"bar", tea.KeyCtrlB, "Bar chart copied!"},
		{"pie", tea.KeyCtrlP, "Pie chart copied!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mem := newTestApp(t)
			m.SetInput("1 2 3", "1-2,3")
			m = press(t, m, keyMsg(tea.KeyCtrlR))
			m = press(t, m, keyMsg(tt.key))

			if m.ack != tt.ack {
				t.Errorf("ack = %q, want %q", m.ack, tt.ack)
			}
			if !bytes.HasPrefix(mem.Image, pngSignature) {
				t.Error("clipboard does not hold a PNG")
			}
		})
	}
}

func TestCopyBeforeAnalysis(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlT, tea.KeyCtrlB, tea.KeyCtrlP} {
		m, mem := newTestApp(t)
		m = press(t, m, keyMsg(k))

		if !m.ackFailed || !strings.Contains(m.ack, "nothing to copy") {
			t.Errorf("%v: ack = %q (failed %v)", k, m.ack, m.ackFailed)
		}
		if mem.Text != "" || mem.Image != nil {
			t.Errorf("%v: clipboard written", k)
		}
	}
}

func TestCopyFailureDoesNotBlock(t *testing.T) {
	m, mem := newTestApp(t)
	mem.Err = errors.New("permission denied")

	m.SetInput("a a b", "a")
	m = press(t, m, keyMsg(tea.KeyCtrlR))
	m = press(t, m, keyMsg(tea.KeyCtrlB))

	if !m.ackFailed || !strings.Contains(m.ack, "permission denied") {
		t.Errorf("ack = %q (failed %v), want failure", m.ack, m.ackFailed)
	}

	m = press(t, m, keyMsg(tea.KeyCtrlR))
	if m.alert != "" || len(m.Results()) != 2 {
		t.Error("analysis after a failed copy did not run")
	}

	m, _ = update(t, m, clearAckMsg{})
	if m.ack != "" {
		t.Error("ack not cleared")
	}
}

func TestSidebarNavigation(t *testing.T) {
	m, _ := newTestApp(t)

	m = press(t, m, keyMsg(tea.KeyEsc))
	if !m.sidebarActive {
		t.Fatal("esc did not focus the menu")
	}
	m = press(t, m, runes("3"))
	if m.currentView != ViewCharts || m.sidebarActive {
		t.Errorf("view = %v sidebar = %v, want charts view focused", m.currentView, m.sidebarActive)
	}
	if !strings.Contains(m.View(), "No charts yet") {
		t.Error("empty charts view not rendered")
	}

	m = press(t, m, keyMsg(tea.KeyEsc))
	m = press(t, m, runes("k"))
	m = press(t, m, keyMsg(tea.KeyEnter))
	if m.currentView != ViewResults {
		t.Errorf("view = %v, want results", m.currentView)
	}
}

func TestTypingDoesNotTriggerShortcuts(t *testing.T) {
	m, _ := newTestApp(t)
	m, _ = update(t, m, runes("q"))
	m, _ = update(t, m, runes("3"))

	if m.currentView != ViewInput {
		t.Errorf("view = %v, want input", m.currentView)
	}
	if data, _ := m.inputView.Values(); data != "q3" {
		t.Errorf("data = %q, want q3", data)
	}
}

func TestDefaultActions(t *testing.T) {
	a := DefaultActions()

	tests := []struct {
		key  tea.KeyType
		want Action
	}{
		{tea.KeyCtrlR, ActionAnalyze},
		{tea.KeyCtrlT, ActionCopyTable},
		{tea.KeyCtrlB, ActionCopyBarChart},
		{tea.KeyCtrlP, ActionCopyPieChart},
		{tea.KeyCtrlO, ActionLoadFile},
	}
	for _, tt := range tests {
		got, ok := a.Match(keyMsg(tt.key))
		if !ok || got != tt.want {
			t.Errorf("Match(%v) = %v, %v; want %v", tt.key, got, ok, tt.want)
		}
	}

	if _, ok := a.Match(runes("a")); ok {
		t.Error("plain key matched an action")
	}
	if n := len(a.Bindings()); n != 5 {
		t.Errorf("got %d bindings, want 5", n)
	}
}

func TestLoadDataFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ages.txt"), []byte("12 40\n70"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestApp(t)
	m.SetInput("", "<18,18-64,≥65")
	m.lastDir = dir

	m = press(t, m, keyMsg(tea.KeyCtrlO))
	if !m.picking {
		t.Fatal("ctrl+o did not open the picker")
	}
	if !strings.Contains(m.View(), "ages.txt") {
		t.Error("picker does not list the data file")
	}

	// Entries: "..", then ages.txt
	m = press(t, m, runes("j"))
	m, cmd := update(t, m, keyMsg(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("selecting a file returned no command")
	}
	m, cmd = update(t, m, cmd())
	if cmd == nil {
		t.Fatal("file selection did not start a load")
	}
	m, _ = update(t, m, cmd())

	if m.picking {
		t.Error("picker still open after load")
	}
	if data, cats := m.inputView.Values(); data != "12 40\n70" || cats != "<18,18-64,≥65" {
		t.Errorf("inputs = %q, %q", data, cats)
	}
	if m.ack != "Loaded ages.txt" {
		t.Errorf("ack = %q", m.ack)
	}

	m = press(t, m, keyMsg(tea.KeyCtrlR))
	if rs := m.Results(); len(rs) != 4 || rs[0].Frequency != 1 || rs[1].Frequency != 1 || rs[2].Frequency != 1 {
		t.Errorf("unexpected results %+v", rs)
	}
}

func TestLoadDataFileCancel(t *testing.T) {
	m, _ := newTestApp(t)
	m.lastDir = t.TempDir()

	m = press(t, m, keyMsg(tea.KeyCtrlO))
	m = press(t, m, keyMsg(tea.KeyEsc))
	if m.picking {
		t.Error("esc did not close the picker")
	}
	if m.sidebarActive {
		t.Error("esc in the picker also focused the menu")
	}
}

func TestLoadDataFileFailure(t *testing.T) {
	m, _ := newTestApp(t)
	m.SetInput("keep", "k")

	m, _ = update(t, m, views.FileSelectedMsg{Path: filepath.Join(t.TempDir(), "missing.txt")})
	cmd := loadDataFile(filepath.Join(t.TempDir(), "missing.txt"))
	m, _ = update(t, m, cmd())

	if !m.ackFailed || !strings.HasPrefix(m.ack, "Load failed") {
		t.Errorf("ack = %q (failed %v)", m.ack, m.ackFailed)
	}
	if data, _ := m.inputView.Values(); data != "keep" {
		t.Errorf("data = %q, want it untouched", data)
	}
}

func TestReadDataFileLimit(t *testing.T) {
	dir := t.TempDir()
	sized := func(name string, n int64) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Truncate(path, n); err != nil {
			t.Fatal(err)
		}
		return path
	}

	data, err := ReadDataFile(sized("max.txt", MaxDataFileSize))
	if err != nil {
		t.Fatalf("file at the limit: %v", err)
	}
	if len(data) != MaxDataFileSize {
		t.Errorf("read %d bytes, want %d", len(data), MaxDataFileSize)
	}

	_, err = ReadDataFile(sized("big.txt", MaxDataFileSize+1))
	if err == nil || !strings.Contains(err.Error(), "big.txt is larger than 8 MiB") {
		t.Errorf("oversize file: err = %v", err)
	}

	if _, err := ReadDataFile(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want os.ErrNotExist", err)
	}
}

func TestSettingsChangeTableFormat(t *testing.T) {
	m, mem := newTestApp(t)
	m.SetInput("a b", "a")
	m = press(t, m, keyMsg(tea.KeyCtrlR))

	m = press(t, m, keyMsg(tea.KeyEsc))
	m = press(t, m, runes("4"))
	if m.currentView != ViewSettings {
		t.Fatalf("view = %v, want settings", m.currentView)
	}
	// html -> markdown
	m = press(t, m, runes("l"))
	if got := m.Config().TableFormat; got != "markdown" {
		t.Fatalf("table format = %q, want markdown", got)
	}

	m = press(t, m, keyMsg(tea.KeyCtrlT))
	if !strings.HasPrefix(mem.Text, "| Category") {
		t.Errorf("clipboard = %q, want markdown table", mem.Text)
	}
}

func TestSettingsBarColorRedraws(t *testing.T) {
	m, _ := newTestApp(t)
	m.SetInput("1 2", "1")
	m = press(t, m, keyMsg(tea.KeyCtrlR))
	old := m.Charts().Bar

	m = press(t, m, keyMsg(tea.KeyEsc))
	m = press(t, m, runes("4"))
	m = press(t, m, runes("j"))
	m = press(t, m, runes("l"))

	if !old.Destroyed() {
		t.Error("bar chart not redrawn after a color change")
	}
	if m.Config().BarColor == config.Default().BarColor {
		t.Error("bar color unchanged")
	}
}

func TestSettingsSave(t *testing.T) {
	dir := t.TempDir()
	m, _ := newTestApp(t)
	m.SetConfigDir(dir)

	m = press(t, m, keyMsg(tea.KeyEsc))
	m = press(t, m, runes("4"))
	m = press(t, m, runes("l"))
	m = press(t, m, runes("s"))

	if m.ack != "Settings saved" || m.ackFailed {
		t.Fatalf("ack = %q (failed %v)", m.ack, m.ackFailed)
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if cfg.TableFormat != "markdown" {
		t.Errorf("saved table format = %q, want markdown", cfg.TableFormat)
	}
}
