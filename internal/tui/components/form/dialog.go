package form

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/signup/internal/core/styles"
)

// KeyMap holds the dialog's key bindings.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Enter  key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the stock dialog bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
	}
}

// Dialog is a form container that manages focus cycling, submission, and
// cancellation across a set of form fields. It never validates; callers
// decide what a submit request means.
type Dialog struct {
	fields       []Field
	variables    []string // parallel slice: variable name for each field
	focusedField int
	submitted    bool
	cancelled    bool
	keys         KeyMap
	Title        string
}

// NewDialog creates a form dialog with the given fields and variable names.
// The first field is focused automatically.
func NewDialog(title string, fields []Field, variables []string) *Dialog {
	d := &Dialog{
		fields:    fields,
		variables: variables,
		keys:      DefaultKeyMap(),
		Title:     title,
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return d
}

// Update handles key input for the dialog, managing focus cycling and submit/cancel.
// Tab wraps around; enter on the last field or ctrl+s requests a submit.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return d.updateFocusedField(msg)
	}

	switch {
	case key.Matches(keyMsg, d.keys.Next):
		return d.advanceFocus(true)
	case key.Matches(keyMsg, d.keys.Prev):
		return d.retreatFocus()
	case key.Matches(keyMsg, d.keys.Enter):
		if d.focusedField == len(d.fields)-1 {
			d.submitted = true
			return d, nil
		}
		return d.advanceFocus(false)
	case key.Matches(keyMsg, d.keys.Submit):
		d.submitted = true
		return d, nil
	case key.Matches(keyMsg, d.keys.Cancel):
		d.cancelled = true
		return d, nil
	}

	return d.updateFocusedField(msg)
}

// View renders all fields vertically with spacing and help text.
func (d *Dialog) View() string {
	var parts []string
	for i, field := range d.fields {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, field.View())
	}

	help := styles.FormHelpStyle.Render("tab/↓ next  shift+tab/↑ prev  enter next/submit  ctrl+s submit  esc quit")
	parts = append(parts, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Focused returns the focused field and its variable name.
func (d *Dialog) Focused() (Field, string, bool) {
	if len(d.fields) == 0 {
		return nil, "", false
	}
	return d.fields[d.focusedField], d.variables[d.focusedField], true
}

// FocusVariable moves focus to the field bound to name.
func (d *Dialog) FocusVariable(name string) tea.Cmd {
	for i, v := range d.variables {
		if v == name {
			return d.focusIndex(i)
		}
	}
	return nil
}

// Submitted returns whether a submit was requested since the last ClearSubmitted.
func (d *Dialog) Submitted() bool { return d.submitted }

// ClearSubmitted acknowledges a submit request.
func (d *Dialog) ClearSubmitted() { d.submitted = false }

// Cancelled returns whether the form was cancelled.
func (d *Dialog) Cancelled() bool { return d.cancelled }

func (d *Dialog) advanceFocus(wrap bool) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	next := d.focusedField + 1
	if next >= len(d.fields) {
		if !wrap {
			return d, nil
		}
		next = 0
	}
	return d, d.focusIndex(next)
}

func (d *Dialog) retreatFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 || d.focusedField == 0 {
		return d, nil
	}
	return d, d.focusIndex(d.focusedField - 1)
}

func (d *Dialog) focusIndex(i int) tea.Cmd {
	if i == d.focusedField && d.fields[i].Focused() {
		return nil
	}
	d.fields[d.focusedField].Blur()
	d.focusedField = i
	return d.fields[d.focusedField].Focus()
}

func (d *Dialog) updateFocusedField(msg tea.Msg) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	var cmd tea.Cmd
	d.fields[d.focusedField], cmd = d.fields[d.focusedField].Update(msg)
	return d, cmd
}
