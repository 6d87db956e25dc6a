package form

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/signup/internal/core/styles"
)

// TextFieldOption configures a TextField.
type TextFieldOption func(*TextField)

// Masked hides the typed characters, for password inputs.
func Masked() TextFieldOption {
	return func(f *TextField) {
		f.input.EchoMode = textinput.EchoPassword
		f.input.EchoCharacter = '•'
	}
}

// WithErrorMessage sets the text shown while the error indicator is visible.
func WithErrorMessage(msg string) TextFieldOption {
	return func(f *TextField) { f.errMsg = msg }
}

// TextField is a single-line text input form field with an inline error line.
type TextField struct {
	input   textinput.Model
	label   string
	errMsg  string
	showErr bool
	focused bool
}

// NewTextField creates a new single-line text input field.
func NewTextField(label, placeholder, defaultVal string, opts ...TextFieldOption) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetWidth(40)

	if defaultVal != "" {
		ti.SetValue(defaultVal)
	}

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	f := &TextField{
		input:  ti,
		label:  label,
		errMsg: "invalid value",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *TextField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *TextField) View() string {
	titleStyle := styles.TextMutedStyle
	if f.focused {
		titleStyle = styles.FormTitleStyle
	}
	parts := []string{titleStyle.Render(f.label), f.input.View()}
	if f.showErr {
		parts = append(parts, styles.FormErrorStyle.Render(f.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	borderStyle := styles.FormFieldStyle
	switch {
	case f.showErr:
		borderStyle = styles.FormFieldErrorStyle
	case f.focused:
		borderStyle = styles.FormFieldFocusedStyle
	}

	return borderStyle.Render(content)
}

func (f *TextField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.focused = false
	f.input.Blur()
}

func (f *TextField) SetValue(v string)     { f.input.SetValue(v) }
func (f *TextField) SetError(visible bool) { f.showErr = visible }
func (f *TextField) ErrorVisible() bool    { return f.showErr }
func (f *TextField) Focused() bool         { return f.focused }
func (f *TextField) Value() string         { return f.input.Value() }
func (f *TextField) Label() string         { return f.label }
