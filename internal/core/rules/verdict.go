package rules

import (
	"errors"
	"time"

	"github.com/hay-kot/criterio"
)

// Field identifies one of the sign-up form inputs by its input name.
type Field string

const (
	FieldName            Field = "name"
	FieldSurname         Field = "surname"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm-password"
	FieldBirthday        Field = "birthday"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldName,
	FieldSurname,
	FieldEmail,
	FieldPassword,
	FieldConfirmPassword,
	FieldBirthday,
}

// IsValid reports whether f is one of the known form fields.
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Values holds the raw input of each field.
type Values map[Field]string

// Verdict maps every field to whether its current value passes its rule.
type Verdict map[Field]bool

// Valid reports whether every field passed.
func (v Verdict) Valid() bool {
	for _, f := range Fields {
		if !v[f] {
			return false
		}
	}
	return true
}

// Failing returns the fields that did not pass, in display order.
func (v Verdict) Failing() []Field {
	var failing []Field
	for _, f := range Fields {
		if !v[f] {
			failing = append(failing, f)
		}
	}
	return failing
}

// Err returns the failing fields as criterio.FieldErrors, or nil when the
// verdict is valid.
func (v Verdict) Err() error {
	var errs criterio.FieldErrorsBuilder
	for _, f := range v.Failing() {
		errs = errs.Append(string(f), errors.New(Message(f)))
	}
	return errs.ToError()
}

// Message is the human readable hint shown when f is invalid.
func Message(f Field) string {
	switch f {
	case FieldName, FieldSurname:
		return "must be between 2 and 24 characters"
	case FieldEmail:
		return "must be a valid email address"
	case FieldPassword:
		return "at least 8 characters with an upper case letter, a digit and one of !@#$%"
	case FieldConfirmPassword:
		return "passwords do not match"
	case FieldBirthday:
		return "must be a date before today (YYYY-MM-DD)"
	default:
		return "invalid value"
	}
}

// Rules binds each field to its predicate. The zero value is not usable; use
// New or Live.
type Rules struct {
	today func() time.Time
}

// New returns Rules whose past-date check compares against the fixed day
// today. Callers normally pass time.Now() once at startup.
func New(today time.Time) Rules {
	return Rules{today: func() time.Time { return today }}
}

// Live returns Rules that read the current day from clock on every check.
func Live(clock func() time.Time) Rules {
	if clock == nil {
		clock = time.Now
	}
	return Rules{today: clock}
}

// Today returns the reference day used by the birthday rule.
func (r Rules) Today() time.Time {
	return r.today()
}

// Check runs the rule bound to f against values. The confirmation rule reads
// the current password from values.
func (r Rules) Check(f Field, values Values) bool {
	v := values[f]
	switch f {
	case FieldName, FieldSurname:
		return ShortText(v)
	case FieldEmail:
		return Email(v)
	case FieldPassword:
		return Password(v)
	case FieldConfirmPassword:
		return PasswordConfirmation(values[FieldPassword], v)
	case FieldBirthday:
		return PastDate(v, r.today())
	default:
		return false
	}
}

// Evaluate runs every rule and returns a verdict holding all fields.
func (r Rules) Evaluate(values Values) Verdict {
	verdict := make(Verdict, len(Fields))
	for _, f := range Fields {
		verdict[f] = r.Check(f, values)
	}
	return verdict
}
