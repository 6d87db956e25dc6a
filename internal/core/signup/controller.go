// Package signup implements the sign-up form controller: the dirty-state
// machine that decides which field errors are shown and when a completed
// form is handed to the submission endpoint.
//
// The controller holds no UI state of its own beyond per-field error
// visibility. It is driven from a single event loop and is not safe for
// concurrent use.
package signup

import (
	"fmt"

	"github.com/hay-kot/signup/internal/core/rules"
	"github.com/hay-kot/signup/internal/core/submit"
)

// State is the dirty flag of a form instance.
type State int

const (
	// StatePristine suppresses error indicators while typing.
	StatePristine State = iota
	// StateDirty shows error indicators for invalid fields while typing.
	StateDirty
)

func (s State) String() string {
	switch s {
	case StatePristine:
		return "pristine"
	case StateDirty:
		return "dirty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Phase tracks the submission lifecycle.
type Phase int

const (
	// PhaseIdle means no submission is outstanding.
	PhaseIdle Phase = iota
	// PhaseSubmitting means a payload has been handed out and not completed.
	PhaseSubmitting
	// PhaseFailed means the last submission failed. Values and state are kept.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Controller is the state of one form instance.
type Controller struct {
	layout    Layout
	rules     rules.Rules
	state     State
	phase     Phase
	values    rules.Values
	visible   map[rules.Field]bool
	verdict   rules.Verdict
	submitErr error
}

// NewController binds the layout's inputs to their rules. It fails if the
// layout does not contain every required field.
func NewController(layout Layout, r rules.Rules) (*Controller, error) {
	if err := layout.Resolve(); err != nil {
		return nil, fmt.Errorf("resolve layout: %w", err)
	}

	return &Controller{
		layout:  layout,
		rules:   r,
		values:  make(rules.Values, len(rules.Fields)),
		visible: make(map[rules.Field]bool, len(rules.Fields)),
	}, nil
}

// Edit records a new value for f and updates that field's error indicator.
// The indicator is shown only when the value is invalid and the form is dirty.
func (c *Controller) Edit(f rules.Field, value string) {
	if !f.IsValid() {
		return
	}
	c.values[f] = value
	valid := c.rules.Check(f, c.values)
	c.visible[f] = !valid && c.state == StateDirty
}

// Submit evaluates every field. When all pass it returns the payload to send
// and enters PhaseSubmitting; Complete must be called with the outcome. When
// any fail the form becomes dirty and the failing fields show their errors.
// Submit returns false without doing anything while a submission is in flight.
// Any other attempt discards the outcome of a previous failed submission.
func (c *Controller) Submit() (submit.Payload, bool) {
	if c.phase == PhaseSubmitting {
		return submit.Payload{}, false
	}
	c.phase = PhaseIdle
	c.submitErr = nil

	c.verdict = c.rules.Evaluate(c.values)
	if !c.verdict.Valid() {
		c.state = StateDirty
		for _, f := range rules.Fields {
			c.visible[f] = !c.verdict[f]
		}
		return submit.Payload{}, false
	}

	c.phase = PhaseSubmitting
	return submit.PayloadFrom(c.values), true
}

// Complete records the outcome of the outstanding submission. Success resets
// the form to an empty pristine state. Failure keeps every value and the dirty
// flag and remembers err for display.
func (c *Controller) Complete(err error) {
	if c.phase != PhaseSubmitting {
		return
	}

	if err != nil {
		c.phase = PhaseFailed
		c.submitErr = err
		return
	}

	c.phase = PhaseIdle
	c.submitErr = nil
	c.state = StatePristine
	c.values = make(rules.Values, len(rules.Fields))
	c.visible = make(map[rules.Field]bool, len(rules.Fields))
}

func (c *Controller) State() State     { return c.state }
func (c *Controller) Phase() Phase     { return c.phase }
func (c *Controller) Layout() Layout   { return c.layout }
func (c *Controller) SubmitErr() error { return c.submitErr }

// Value returns the current value of f.
func (c *Controller) Value(f rules.Field) string { return c.values[f] }

// ErrorVisible reports whether f's error indicator is shown.
func (c *Controller) ErrorVisible(f rules.Field) bool { return c.visible[f] }

// Values returns a copy of the current field values.
func (c *Controller) Values() rules.Values {
	out := make(rules.Values, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Verdict returns the verdict of the last Submit, or nil before the first.
func (c *Controller) Verdict() rules.Verdict { return c.verdict }

// VisibleErrors returns the fields whose indicator is shown, in display order.
func (c *Controller) VisibleErrors() []rules.Field {
	var out []rules.Field
	for _, f := range rules.Fields {
		if c.visible[f] {
			out = append(out, f)
		}
	}
	return out
}
