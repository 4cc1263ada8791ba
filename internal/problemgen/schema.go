package problemgen

import "github.com/abhisek/mathquiz/internal/llm"

// QuestionSchema defines the JSON schema for LLM question generation responses.
// Objects stay open and options may be numbers; parse turns them into text.
var QuestionSchema = &llm.Schema{
	Name:        "quiz-question",
	Description: "A single multiple-choice arithmetic question with explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question shown to the child",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": []any{"string", "number"},
				},
				"description": "Exactly 4 answer options, one of which is correct",
			},
			"correctAnswer": map[string]any{
				"type":        "number",
				"description": "Zero-based index of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "A short worked solution suitable for a child",
			},
		},
		"required": []any{"question", "options", "correctAnswer", "explanation"},
	},
}
