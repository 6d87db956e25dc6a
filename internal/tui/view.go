package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/signup/internal/core/signup"
	"github.com/hay-kot/signup/internal/core/styles"
	"github.com/hay-kot/signup/internal/core/submit"
)

func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	return tea.NewView(m.render())
}

func (m Model) render() string {
	parts := []string{styles.TitleStyle.Render(m.opts.Title)}
	if m.opts.Endpoint != "" {
		parts = append(parts, styles.TextMutedStyle.Render("posts to "+m.opts.Endpoint))
	}
	parts = append(parts, "", m.dialog.View())

	if status := m.statusLine(); status != "" {
		parts = append(parts, "", status)
	}

	if footer := m.footer(); footer != "" {
		parts = append(parts, "", footer)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// statusLine renders the in-flight spinner, the submission error, or the
// success notice. The submission error is kept separate from field errors.
func (m Model) statusLine() string {
	switch m.ctrl.Phase() {
	case signup.PhaseSubmitting:
		return m.spinner.View() + " " + styles.TextMutedStyle.Render("Submitting…")
	case signup.PhaseFailed:
		return styles.BannerErrorStyle.Render(describeSubmitErr(m.ctrl.SubmitErr()) + " Press ctrl+s to retry.")
	}

	if n, ok := m.notices.Current(); ok {
		return styles.BannerSuccessStyle.Render(n.Message)
	}
	return ""
}

func (m Model) footer() string {
	if m.opts.Build.Version == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("signup " + m.opts.Build.Version)
	if m.opts.Build.Commit != "" {
		b.WriteString(" (" + m.opts.Build.Commit + ")")
	}
	return styles.TextMutedStyle.Render(b.String())
}

// describeSubmitErr turns a submission error into a one-line message.
func describeSubmitErr(err error) string {
	var (
		statusErr  *submit.StatusError
		timeoutErr interface{ Timeout() bool }
	)
	switch {
	case err == nil:
		return "Submission failed."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The server rejected the sign-up (HTTP %d).", statusErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &timeoutErr) && timeoutErr.Timeout():
		return "The server did not answer in time."
	default:
		return "Could not reach the server: " + err.Error() + "."
	}
}
