package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquiz/internal/question"
)

// StructuralValidator checks that required fields are present and that the
// options and answer index have the right shape.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *question.Question) *ValidationError {
	if strings.TrimSpace(q.Question) == "" {
		return v.fail("question is empty")
	}
	if len(q.Question) > 500 {
		return v.fail("question exceeds 500 characters")
	}
	if len(q.Options) != question.OptionCount {
		return v.fail(fmt.Sprintf("expected %d options, got %d", question.OptionCount, len(q.Options)))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return v.fail(fmt.Sprintf("correctAnswer %d is out of range", q.CorrectAnswer))
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return v.fail("explanation is empty")
	}
	if len(q.Explanation) > 1000 {
		return v.fail("explanation exceeds 1000 characters")
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{
		Validator: v.Name(),
		Message:   msg,
		Retryable: true,
	}
}
