package problemgen

import "context"

// Generator produces quiz questions.
type Generator interface {
	// Generate produces a single question for req. Failures are reported in
	// the Outcome, never as a panic.
	Generate(ctx context.Context, req Request) Outcome
}
