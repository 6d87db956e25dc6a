package tui

import "charm.land/bubbles/v2/key"

// KeyMap holds the model-level bindings. Field navigation and submit keys
// belong to the form dialog.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}
