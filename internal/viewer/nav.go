package viewer

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Direction is a navigation signal
type Direction int

const (
	NoDirection Direction = iota
	Next
	Previous
)

// Navigate moves index one step in dir, wrapping around count groups.
// It returns index unchanged when there are no groups or dir is not a move.
func Navigate(index, count int, dir Direction) int {
	if count <= 0 {
		return index
	}

	switch dir {
	case Next:
		return (index + 1) % count
	case Previous:
		return (index - 1 + count) % count
	default:
		return index
	}
}

// KeyMap binds keys to viewer actions
type KeyMap struct {
	Next     key.Binding
	Previous key.Binding
	Open     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", " ", "space"),
			key.WithHelp("→/l", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open decklist"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Direction maps a key press to a navigation signal
func (k KeyMap) Direction(msg tea.KeyMsg) Direction {
	switch {
	case key.Matches(msg, k.Next):
		return Next
	case key.Matches(msg, k.Previous):
		return Previous
	default:
		return NoDirection
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next},
		{k.Open, k.Help, k.Quit},
	}
}
