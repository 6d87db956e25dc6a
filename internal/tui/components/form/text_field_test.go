package form

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestTextField(t *testing.T) {
	t.Run("creation with defaults", func(t *testing.T) {
		f := NewTextField("Name", "enter name", "")
		assert.Equal(t, "Name", f.Label())
		assert.Empty(t, f.Value())
		assert.False(t, f.Focused())
		assert.False(t, f.ErrorVisible())
	})

	t.Run("creation with default value", func(t *testing.T) {
		f := NewTextField("Name", "enter name", "hello")
		assert.Equal(t, "hello", f.Value())
	})

	t.Run("focus and blur", func(t *testing.T) {
		f := NewTextField("Name", "", "")
		f.Focus()
		assert.True(t, f.Focused())

		f.Blur()
		assert.False(t, f.Focused())
	})

	t.Run("update ignored when not focused", func(t *testing.T) {
		f := NewTextField("Name", "", "")
		field, cmd := f.Update(tea.KeyPressMsg(tea.Key{Code: 'a', Text: "a"}))
		assert.Nil(t, cmd)
		assert.Empty(t, field.Value())
	})

	t.Run("typing while focused", func(t *testing.T) {
		f := NewTextField("Name", "", "")
		f.Focus()
		f.Update(tea.KeyPressMsg(tea.Key{Code: 'h', Text: "h"}))
		f.Update(tea.KeyPressMsg(tea.Key{Code: 'i', Text: "i"}))
		assert.Equal(t, "hi", f.Value())
	})

	t.Run("set value", func(t *testing.T) {
		f := NewTextField("Name", "", "old")
		f.SetValue("")
		assert.Empty(t, f.Value())
	})

	t.Run("error line follows visibility", func(t *testing.T) {
		f := NewTextField("Email", "", "", WithErrorMessage("Please enter a valid email address."))
		assert.NotContains(t, ansi.Strip(f.View()), "valid email")

		f.SetError(true)
		assert.True(t, f.ErrorVisible())
		assert.Contains(t, ansi.Strip(f.View()), "Please enter a valid email address.")

		f.SetError(false)
		assert.NotContains(t, ansi.Strip(f.View()), "valid email")
	})

	t.Run("masked field hides input", func(t *testing.T) {
		f := NewTextField("Password", "", "Secret1!", Masked())
		f.Focus()
		view := ansi.Strip(f.View())
		assert.NotContains(t, view, "Secret1!")
		assert.Equal(t, "Secret1!", f.Value())
	})

	t.Run("view changes with focus", func(t *testing.T) {
		f := NewTextField("Name", "", "")
		unfocused := f.View()

		f.Focus()
		focused := f.View()

		assert.NotEqual(t, unfocused, focused)
	})
}
