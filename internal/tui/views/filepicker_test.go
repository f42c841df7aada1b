package views

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func names(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilePickerListing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.TXT", "a.csv", "image.png", ".hidden.txt")
	if err := os.Mkdir(filepath.Join(dir, "Zdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	m := NewFilePickerModel(dir)
	want := []string{"..", "Zdir", "a.csv", "b.TXT"}
	if got := names(m.Entries()); !equal(got, want) {
		t.Errorf("entries = %q, want %q", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	want = []string{"..", "Zdir", "a.csv", "b.TXT", "image.png"}
	if got := names(m.Entries()); !equal(got, want) {
		t.Errorf("show all entries = %q, want %q", got, want)
	}
}

func TestFilePickerNavigation(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, sub, "data.txt")

	m := NewFilePickerModel(dir)
	down := tea.KeyMsg{Type: tea.KeyDown}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	m, _ = m.Update(down)
	m, _ = m.Update(enter)
	if m.Dir() != sub {
		t.Fatalf("dir = %q, want %q", m.Dir(), sub)
	}

	m, _ = m.Update(down)
	_, cmd := m.Update(enter)
	if cmd == nil {
		t.Fatal("selecting a file returned no command")
	}
	msg, ok := cmd().(FileSelectedMsg)
	if !ok || msg.Path != filepath.Join(sub, "data.txt") {
		t.Errorf("got %#v", msg)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Dir() != dir {
		t.Errorf("backspace dir = %q, want %q", m.Dir(), dir)
	}
}

func TestFilePickerMissingDir(t *testing.T) {
	m := NewFilePickerModel(filepath.Join(t.TempDir(), "gone"))
	if m.Err() == nil {
		t.Error("expected an error for a missing directory")
	}
	if len(m.Entries()) != 0 {
		t.Errorf("entries = %q, want none", names(m.Entries()))
	}
}
