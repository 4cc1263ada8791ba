package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquiz/internal/question"
)

const systemPrompt = `You are a math teacher writing quiz questions for children.
Respond with a single JSON object and nothing else. Do not wrap it in Markdown.`

var audiences = map[question.Difficulty]string{
	question.Easy:   "young children (ages 6-8) who are just learning",
	question.Medium: "children (ages 8-10) with basic math skills",
	question.Hard:   "older children (ages 10-12) who are ready for a challenge",
}

// audience describes who a question of the given difficulty is for.
func audience(d question.Difficulty) string {
	if a, ok := audiences[d]; ok {
		return a
	}
	return audiences[question.Easy]
}

// buildUserMessage constructs the generation prompt for req.
func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a %s multiple-choice math question about %s for %s.\n",
		req.Difficulty, req.Topic, audience(req.Difficulty))
	b.WriteString(`
Return JSON in exactly this shape:
{
  "question": "the question text",
  "options": ["option 1", "option 2", "option 3", "option 4"],
  "correctAnswer": 0,
  "explanation": "why the correct option is right"
}

Rules:
- Provide exactly 4 distinct options.
- correctAnswer is the zero-based index of the correct option.
- Keep the wording simple and friendly.
`)

	b.WriteString("\nDo not repeat any of these questions:\n")
	b.WriteString(buildDedup(req.Avoid, cfg.MaxAvoid))

	return b.String()
}
