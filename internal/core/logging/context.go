package logging

import "context"

type contextKey string

const (
	formIDKey  contextKey = "form_id"
	attemptKey contextKey = "attempt"
)

// WithFormID adds the form instance ID to the context.
func WithFormID(ctx context.Context, formID string) context.Context {
	return context.WithValue(ctx, formIDKey, formID)
}

// WithAttempt adds the submission attempt number to the context.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey, attempt)
}

// GetFormID retrieves the form instance ID from the context.
// Returns empty string if not present.
func GetFormID(ctx context.Context) string {
	if id, ok := ctx.Value(formIDKey).(string); ok {
		return id
	}
	return ""
}

// GetAttempt retrieves the submission attempt number from the context.
// Returns 0 if not present.
func GetAttempt(ctx context.Context) int {
	if n, ok := ctx.Value(attemptKey).(int); ok {
		return n
	}
	return 0
}
