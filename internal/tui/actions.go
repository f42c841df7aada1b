package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a user-triggered operation.
type Action int

const (
	ActionAnalyze Action = iota
	ActionCopyTable
	ActionCopyBarChart
	ActionCopyPieChart
	ActionLoadFile
)

func (a Action) String() string {
	switch a {
	case ActionAnalyze:
		return "analyze"
	case ActionCopyTable:
		return "copy-table"
	case ActionCopyBarChart:
		return "copy-bar-chart"
	case ActionCopyPieChart:
		return "copy-pie-chart"
	case ActionLoadFile:
		return "load-file"
	default:
		return "unknown"
	}
}

// Binding ties an action to its keys.
type Binding struct {
	Action Action
	Key    key.Binding
}

// Actions is the registry of key-triggered actions. Keys are checked in
// registration order.
type Actions struct {
	bindings []Binding
}

// Register binds keys to an action. help describes it in the help overlay.
func (a *Actions) Register(action Action, help string, keys ...string) {
	a.bindings = append(a.bindings, Binding{
		Action: action,
		Key:    key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
	})
}

// Match returns the action bound to msg, if any.
func (a *Actions) Match(msg tea.KeyMsg) (Action, bool) {
	for _, b := range a.bindings {
		if key.Matches(msg, b.Key) {
			return b.Action, true
		}
	}
	return 0, false
}

// Bindings returns the registered bindings in order.
func (a *Actions) Bindings() []Binding {
	return a.bindings
}

// DefaultActions registers the user actions. Control keys are used so
// they work while typing in the inputs.
func DefaultActions() *Actions {
	a := &Actions{}
	a.Register(ActionAnalyze, "Analyze data", "ctrl+r")
	a.Register(ActionCopyTable, "Copy table", "ctrl+t")
	a.Register(ActionCopyBarChart, "Copy bar chart", "ctrl+b")
	a.Register(ActionCopyPieChart, "Copy pie chart", "ctrl+p")
	a.Register(ActionLoadFile, "Load data file", "ctrl+o")
	return a
}
