package problemgen

import (
	"testing"

	"github.com/abhisek/mathquiz/internal/question"
)

// mcQuestion builds a question whose correct option is answer.
func mcQuestion(text, answer string) *question.Question {
	return &question.Question{
		Question:      text,
		Options:       []string{"distractor-a", answer, "distractor-b", "distractor-c"},
		CorrectAnswer: 1,
		Explanation:   "worked solution",
	}
}

func TestMathCheck_Arithmetic(t *testing.T) {
	v := &MathCheckValidator{}

	tests := []struct {
		name  string
		text  string
		right string
		wrong string
	}{
		{"addition", "What is 345 + 278?", "623", "612"},
		{"subtraction", "567 - 289 = ?", "278", "288"},
		{"multiplication star", "What is 23 * 45?", "1035", "1025"},
		{"multiplication sign", "What is 7 × 8?", "56", "54"},
		{"division slash", "What is 144 / 12?", "12", "11"},
		{"division sign", "What is 56 ÷ 8?", "7", "8"},
		{"decimals", "What is 0.1 + 0.2?", "0.3", "0.4"},
		{"tenths", "What is 3/10 + 4/10?", "7/10", "8/10"},
		{"tenths whole", "What is 3/10 + 7/10?", "10/10", "11/10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.Validate(mcQuestion(tc.text, tc.right)); err != nil {
				t.Fatalf("correct answer %q should pass: %v", tc.right, err)
			}
			err := v.Validate(mcQuestion(tc.text, tc.wrong))
			if err == nil {
				t.Fatalf("wrong answer %q should fail", tc.wrong)
			}
			if err.Validator != "math-check" {
				t.Errorf("validator = %q, want math-check", err.Validator)
			}
		})
	}
}

func TestMathCheck_FractionArithmetic(t *testing.T) {
	v := &MathCheckValidator{}

	tests := []struct {
		text   string
		answer string
	}{
		{"What is 1/4 + 1/2?", "3/4"},
		{"What is 3/4 - 1/3?", "5/12"},
		{"What is 2/3 * 3/4?", "1/2"},
		{"What is 1/2 ÷ 1/4?", "2"},
	}

	for _, tc := range tests {
		if err := v.Validate(mcQuestion(tc.text, tc.answer)); err != nil {
			t.Errorf("expected %q with answer %q to pass: %v", tc.text, tc.answer, err)
		}
	}
}

func TestMathCheck_NonComputable(t *testing.T) {
	v := &MathCheckValidator{}

	tests := []struct {
		text   string
		answer string
	}{
		{"Which fraction is larger: 3/4 or 2/3?", "3/4"},
		{"A farmer has 345 apples and gives away 123. How many are left?", "222"},
		{"What place value does 5 have in 5,432?", "thousands"},
		{"What is 2 + 2?", "four"},
	}

	for _, tc := range tests {
		if err := v.Validate(mcQuestion(tc.text, tc.answer)); err != nil {
			t.Errorf("non-computable %q should pass silently: %v", tc.text, err)
		}
	}
}

func TestMathCheck_AcceptsArithmeticOutput(t *testing.T) {
	v := &MathCheckValidator{}
	gen := NewArithmetic(WithRand(seededRand(3)))

	for _, topic := range question.Topics() {
		for _, d := range question.Difficulties() {
			q := gen.Question(topic, d)
			if err := v.Validate(&q); err != nil {
				t.Errorf("%s/%s %q rejected: %v", topic, d, q.Question, err)
			}
		}
	}
}
