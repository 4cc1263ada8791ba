package play

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}

	header := layout.RenderHeader(m.title(), fmt.Sprintf("%d/%d", m.right, m.answered), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.body(), footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	if m.opts.Topic == "" || m.opts.Difficulty == "" {
		return "New quiz"
	}
	return fmt.Sprintf("%s · %s", m.opts.Topic, m.opts.Difficulty)
}

func (m Model) body() string {
	switch m.phase {
	case phasePickTopic, phasePickDifficulty:
		return m.menu.View()
	case phaseLoading:
		return theme.Hint.Render("Fetching a question...")
	case phaseFailed:
		return theme.Incorrect.Render("Could not get a question.") + "\n\n" +
			theme.Hint.Render(m.err.Error())
	}

	var b strings.Builder
	if m.opts.Typed {
		b.WriteString(theme.Body.Bold(true).Render(m.current.Question))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else {
		b.WriteString(m.choice.View())
	}

	if m.phase == phaseFeedback {
		b.WriteString("\n")
		if m.correct {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite. The answer is " + m.current.CorrectOption() + "."))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Card.Render(m.current.Explanation))
		b.WriteString("\n\n")
		b.WriteString(components.ScoreBar{Correct: m.right, Answered: m.answered, Width: min(m.width-8, 50)}.View())
	}
	return b.String()
}

func (m Model) hints() []layout.KeyHint {
	quit := layout.KeyHint{Key: "Esc", Description: "Quit"}
	switch m.phase {
	case phasePickTopic, phasePickDifficulty:
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, quit}
	case phaseAsking:
		if m.opts.Typed {
			return []layout.KeyHint{{Key: "Enter", Description: "Check"}, quit}
		}
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "1-4", Description: "Answer"}, quit}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "q", Description: "Quit"}}
	case phaseFailed:
		return []layout.KeyHint{{Key: "r", Description: "Retry"}, {Key: "q", Description: "Quit"}}
	}
	return []layout.KeyHint{quit}
}
