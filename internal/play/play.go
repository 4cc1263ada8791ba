package play

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
)

// Run starts the quiz and blocks until the player quits. It returns the
// final score.
func Run(ctx context.Context, source QuestionSource, opts Options) (correct, answered int, err error) {
	p := tea.NewProgram(New(ctx, source, opts))
	final, err := p.Run()
	if err != nil {
		return 0, 0, fmt.Errorf("run quiz: %w", err)
	}
	if m, ok := final.(Model); ok {
		correct, answered = m.Score()
	}
	return correct, answered, nil
}
