package problemgen

import "github.com/abhisek/mathquiz/internal/question"

// Request asks a generator for one question in a bucket.
type Request struct {
	Topic      question.Topic
	Difficulty question.Difficulty

	// Avoid lists question texts already stored for the bucket. Remote
	// generators pass them to the model so it does not repeat itself.
	Avoid []string
}

// Outcome is the result of one generation attempt: either a question or
// the reason none was produced. Callers must check OK.
type Outcome struct {
	Question question.Question
	Failure  error
}

// OK reports whether the outcome carries a question.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// Succeeded wraps q in a successful Outcome.
func Succeeded(q question.Question) Outcome {
	return Outcome{Question: q}
}

// Failed wraps err in a failed Outcome.
func Failed(err error) Outcome {
	return Outcome{Failure: err}
}

// AnswerType describes the numeric representation of an answer.
type AnswerType string

const (
	AnswerTypeInteger  AnswerType = "integer"  // e.g. "623"
	AnswerTypeDecimal  AnswerType = "decimal"  // e.g. "3.7"
	AnswerTypeFraction AnswerType = "fraction" // e.g. "7/10"
	AnswerTypeText     AnswerType = "text"
)
