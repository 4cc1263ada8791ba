package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// answerChars are the characters a typed numeric answer may contain:
// integers, decimals, fractions and a leading sign.
const answerChars = "0123456789./- "

// TextInput wraps bubbles/textinput for typed answers.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	submitted   bool
	valid       bool
}

func NewTextInput(placeholder string, numericOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{Model: ti, NumericOnly: numericOnly}
}

// Update forwards msg to the underlying input. With NumericOnly set, printable
// keys outside answerChars are dropped. Nothing changes after Submit.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.submitted {
		return t, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && t.NumericOnly {
		if text := kmsg.Text; text != "" && strings.Trim(text, answerChars) != "" {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + theme.Correct.Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Submit freezes the input and records whether the answer was right.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
	t.Model.Blur()
}

func (t TextInput) Submitted() bool {
	return t.submitted
}
