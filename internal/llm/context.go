package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// PurposeQuestion labels question-generation calls in the event log.
const PurposeQuestion = "quiz-question"

// WithPurpose attaches a purpose label used by the logging decorator.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
