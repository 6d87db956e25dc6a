// Package logging holds zerolog helpers shared by the signup components.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
// The returned logger carries ContextHook so events logged with
// .Ctx(ctx) pick up the form ID and attempt number.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger().Hook(ContextHook{})
}
