package signup

import (
	"errors"
	"fmt"

	"github.com/hay-kot/signup/internal/core/rules"
)

var (
	// ErrMissingField is returned when a layout lacks one of the required inputs.
	ErrMissingField = errors.New("missing form field")
	// ErrUnknownField is returned when a layout names an input the form does not know.
	ErrUnknownField = errors.New("unknown form field")
	// ErrDuplicateField is returned when a layout names an input twice.
	ErrDuplicateField = errors.New("duplicate form field")
)

// Input describes one rendered input of the form.
type Input struct {
	Field       rules.Field
	Label       string
	Placeholder string
	Masked      bool
}

// Layout is the ordered set of inputs supplied by the form template.
type Layout []Input

// DefaultLayout returns the stock layout for the six sign-up inputs.
func DefaultLayout() Layout {
	return Layout{
		{Field: rules.FieldName, Label: "Name", Placeholder: "Ada"},
		{Field: rules.FieldSurname, Label: "Surname", Placeholder: "Lovelace"},
		{Field: rules.FieldEmail, Label: "Email", Placeholder: "ada@example.com"},
		{Field: rules.FieldPassword, Label: "Password", Masked: true},
		{Field: rules.FieldConfirmPassword, Label: "Confirm password", Masked: true},
		{Field: rules.FieldBirthday, Label: "Birthday", Placeholder: "YYYY-MM-DD"},
	}
}

// Resolve checks that the layout binds every required field exactly once.
func (l Layout) Resolve() error {
	seen := make(map[rules.Field]bool, len(l))
	for _, in := range l {
		if !in.Field.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownField, in.Field)
		}
		if seen[in.Field] {
			return fmt.Errorf("%w: %q", ErrDuplicateField, in.Field)
		}
		seen[in.Field] = true
	}

	for _, f := range rules.Fields {
		if !seen[f] {
			return fmt.Errorf("%w: %q", ErrMissingField, f)
		}
	}
	return nil
}

// Lookup returns the input bound to f.
func (l Layout) Lookup(f rules.Field) (Input, bool) {
	for _, in := range l {
		if in.Field == f {
			return in, true
		}
	}
	return Input{}, false
}
