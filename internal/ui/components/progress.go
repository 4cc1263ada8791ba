package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// ScoreBar renders the share of correct answers as a horizontal bar.
type ScoreBar struct {
	Correct  int
	Answered int
	Width    int
}

// Ratio returns Correct/Answered, or 0 before the first answer.
func (s ScoreBar) Ratio() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

func (s ScoreBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("Score %d/%d", s.Correct, s.Answered)) + "  "

	barWidth := s.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}
	filled := min(max(int(float64(barWidth)*s.Ratio()), 0), barWidth)

	return label +
		lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
}
