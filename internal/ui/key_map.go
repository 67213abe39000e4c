package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings shared by every view. Moving through lists is
// left to the list models' own bindings; up and down only feed the help line.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	pick      key.Binding
	confirm   key.Binding
	cancel    key.Binding
	newSearch key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		pick:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "download")),
		confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "start")),
		cancel:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "back to results")),
		newSearch: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new search")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpFor lists the bindings shown under view. newSearch only applies when
// the model was opened from search results.
func (k keyMap) helpFor(view ViewState, searchable bool) []key.Binding {
	switch view {
	case SearchView:
		return []key.Binding{k.up, k.down, k.pick, k.quit}
	case ConfirmView:
		return []key.Binding{k.confirm, k.cancel, k.quit}
	case ResultView:
		if searchable {
			return []key.Binding{k.up, k.down, k.newSearch, k.quit}
		}
		return []key.Binding{k.up, k.down, k.quit}
	default:
		return []key.Binding{k.quit}
	}
}
