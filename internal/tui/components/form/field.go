package form

import tea "charm.land/bubbletea/v2"

// Field is the interface implemented by all form field types.
type Field interface {
	Update(msg tea.Msg) (Field, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Value() string
	SetValue(v string)
	SetError(visible bool) // toggles the error line and border highlight
	ErrorVisible() bool
	Label() string // Display label for the field
}
