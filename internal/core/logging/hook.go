package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts form_id and attempt from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if formID := GetFormID(ctx); formID != "" {
		e.Str("form_id", formID)
	}

	if attempt := GetAttempt(ctx); attempt > 0 {
		e.Int("attempt", attempt)
	}
}
