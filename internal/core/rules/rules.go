// Package rules provides the field validation predicates for the sign-up form.
//
// Every predicate is pure: it reads only its arguments and reports a boolean
// verdict. Empty, malformed and out-of-range input are all simply invalid.
package rules

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	shortTextMin = 2
	shortTextMax = 25 // exclusive

	passwordMinLength = 8
	passwordSymbols   = "!@#$%"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dateLayouts are the formats accepted for a birthday. The first one is what
// an HTML date input produces.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// ShortText reports whether s is a non-empty string of 2 to 24 characters.
func ShortText(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= shortTextMin && n < shortTextMax
}

// Email reports whether s looks like local@domain.tld with no whitespace.
func Email(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}

// Password reports whether s has at least 8 characters including an upper
// case letter, a digit and one of !@#$%.
func Password(s string) bool {
	if utf8.RuneCountInString(s) < passwordMinLength {
		return false
	}

	var upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	return upper && digit && symbol
}

// PasswordConfirmation reports whether both values are set and identical.
func PasswordConfirmation(password, confirmation string) bool {
	return password != "" && confirmation != "" && password == confirmation
}

// PastDate reports whether s is a date whose calendar day falls strictly
// before the calendar day of today. Days are compared in today's location.
func PastDate(s string, today time.Time) bool {
	d, ok := ParseDate(s, today.Location())
	if !ok {
		return false
	}
	return dayOf(d).Before(dayOf(today))
}

// ParseDate parses s with the accepted birthday layouts in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
