// Package tui implements the Bubble Tea TUI for the sign-up form.
package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/hay-kot/signup/internal/core/logging"
	"github.com/hay-kot/signup/internal/core/rules"
	"github.com/hay-kot/signup/internal/core/signup"
	"github.com/hay-kot/signup/internal/core/styles"
	"github.com/hay-kot/signup/internal/core/submit"
	"github.com/hay-kot/signup/internal/tui/components/form"
)

const defaultTitle = "Create your account"

// Options configures the TUI.
type Options struct {
	Controller *signup.Controller // required
	Submitter  submit.Submitter   // required
	Timeout    time.Duration      // per-attempt deadline; zero means none beyond the submitter's own
	Title      string
	Endpoint   string // shown under the title
	FormID     string // attached to submission logs
	Build      BuildInfo
	Logger     zerolog.Logger
}

// submitResultMsg carries the outcome of one submission attempt.
type submitResultMsg struct {
	attempt int
	resp    submit.Response
	err     error
}

// Model is the Bubble Tea model for the sign-up form.
type Model struct {
	opts     Options
	ctrl     *signup.Controller
	keys     KeyMap
	dialog   *form.Dialog
	fields   map[rules.Field]*form.TextField
	order    []rules.Field
	spinner  spinner.Model
	notices  *NoticeController
	attempt  int
	quitting bool
	width    int
	height   int
}

// New builds one text field per layout input, in layout order.
func New(opts Options) Model {
	layout := opts.Controller.Layout()

	fields := make([]form.Field, 0, len(layout))
	variables := make([]string, 0, len(layout))
	byField := make(map[rules.Field]*form.TextField, len(layout))
	order := make([]rules.Field, 0, len(layout))

	for _, in := range layout {
		fieldOpts := []form.TextFieldOption{form.WithErrorMessage(rules.Message(in.Field))}
		if in.Masked {
			fieldOpts = append(fieldOpts, form.Masked())
		}

		tf := form.NewTextField(in.Label, in.Placeholder, opts.Controller.Value(in.Field), fieldOpts...)
		fields = append(fields, tf)
		variables = append(variables, string(in.Field))
		byField[in.Field] = tf
		order = append(order, in.Field)
	}

	if opts.Title == "" {
		opts.Title = defaultTitle
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return Model{
		opts:    opts,
		ctrl:    opts.Controller,
		keys:    DefaultKeyMap(),
		dialog:  form.NewDialog(opts.Title, fields, variables),
		fields:  byField,
		order:   order,
		spinner: s,
		notices: NewNoticeController(),
	}
}

func (m Model) Init() tea.Cmd {
	if f, _, ok := m.dialog.Focused(); ok {
		return f.Focus()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.Phase() != signup.PhaseSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeTickMsg:
		m.notices.Tick(noticeTickInterval)
		if _, ok := m.notices.Current(); !ok {
			m.notices.SetTicking(false)
			return m, nil
		}
		return m, scheduleNoticeTick()

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case tea.KeyPressMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m.updateDialog(msg)
}

// updateDialog forwards msg to the dialog and reports any value change of
// the focused field to the controller.
func (m Model) updateDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	focused, name, ok := m.dialog.Focused()
	before := ""
	if ok {
		before = focused.Value()
	}

	var cmd tea.Cmd
	m.dialog, cmd = m.dialog.Update(msg)

	if m.dialog.Cancelled() {
		m.quitting = true
		return m, tea.Quit
	}

	if ok && focused.Value() != before {
		m.ctrl.Edit(rules.Field(name), focused.Value())
		m.syncErrors()
	}

	if m.dialog.Submitted() {
		m.dialog.ClearSubmitted()
		return m.startSubmit(cmd)
	}

	return m, cmd
}

func (m Model) startSubmit(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	inFlight := m.ctrl.Phase() == signup.PhaseSubmitting

	payload, ok := m.ctrl.Submit()
	if !ok {
		if inFlight {
			return m, cmd
		}
		m.syncErrors()
		if failing := m.ctrl.VisibleErrors(); len(failing) > 0 {
			cmd = tea.Batch(cmd, m.dialog.FocusVariable(string(failing[0])))
		}
		m.opts.Logger.Debug().
			Str("form_id", m.opts.FormID).
			Strs("failing", fieldNames(m.ctrl.VisibleErrors())).
			Msg("submit blocked by invalid fields")
		return m, cmd
	}

	m.syncErrors()
	m.notices.Dismiss()
	m.attempt++
	return m, tea.Batch(cmd, m.spinner.Tick, m.submitCmd(payload, m.attempt))
}

func (m Model) submitCmd(p submit.Payload, attempt int) tea.Cmd {
	submitter := m.opts.Submitter
	timeout := m.opts.Timeout
	formID := m.opts.FormID

	return func() tea.Msg {
		ctx := logging.WithFormID(context.Background(), formID)
		ctx = logging.WithAttempt(ctx, attempt)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		resp, err := submitter.Submit(ctx, p)
		return submitResultMsg{attempt: attempt, resp: resp, err: err}
	}
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.attempt != m.attempt {
		return m, nil
	}

	m.ctrl.Complete(msg.err)

	if msg.err != nil {
		m.opts.Logger.Warn().
			Err(msg.err).
			Str("form_id", m.opts.FormID).
			Int("attempt", msg.attempt).
			Msg("submission failed")
		return m, nil
	}

	for _, f := range m.order {
		tf := m.fields[f]
		tf.SetValue("")
		tf.SetError(false)
	}

	m.notices.Show(successMessage(msg.resp))
	cmds := []tea.Cmd{m.dialog.FocusVariable(string(m.order[0]))}
	if !m.notices.Ticking() {
		m.notices.SetTicking(true)
		cmds = append(cmds, scheduleNoticeTick())
	}
	return m, tea.Batch(cmds...)
}

// syncErrors copies the controller's indicator state onto the fields.
func (m Model) syncErrors() {
	for f, tf := range m.fields {
		tf.SetError(m.ctrl.ErrorVisible(f))
	}
}

func successMessage(resp submit.Response) string {
	if id, ok := resp.ID(); ok {
		return fmt.Sprintf("Account created (id %v).", id)
	}
	return "Account created."
}

func fieldNames(fields []rules.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
