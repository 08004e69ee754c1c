package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the movie list
type KeyMap struct {
	Genre     key.Binding
	Year      key.Binding
	ClearYear key.Binding
	Previous  key.Binding
	Next      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Genre: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "genre"),
		),
		Year: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "next year"),
		),
		ClearYear: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "any year"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p", "left", "h"),
			key.WithHelp("p/←", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right", "l"),
			key.WithHelp("n/→", "next"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Genre, k.Year, k.ClearYear, k.Previous, k.Next, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Genre, k.Year, k.ClearYear},
		{k.Previous, k.Next, k.Quit},
	}
}
