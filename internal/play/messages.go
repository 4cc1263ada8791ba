package play

import "github.com/abhisek/mathquiz/internal/question"

// questionReadyMsg carries the result of a Next call.
type questionReadyMsg struct {
	Question question.Question
	Err      error
}
