package problemgen

import (
	"testing"

	"github.com/abhisek/mathquiz/internal/question"
)

func withAnswer(correct string, others ...string) question.Question {
	return question.Question{
		Options:       append([]string{correct}, others...),
		CorrectAnswer: 0,
	}
}

func TestCheckAnswer_Integer(t *testing.T) {
	q := withAnswer("42", "40", "44", "47")

	tests := []struct {
		input string
		want  bool
	}{
		{"42", true},
		{" 42 ", true},
		{"042", true},
		{"43", false},
		{"", false},
		{"abc", false},
	}

	for _, tc := range tests {
		got := CheckAnswer(tc.input, q)
		if got != tc.want {
			t.Errorf("CheckAnswer(%q, 42/integer) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCheckAnswer_Decimal(t *testing.T) {
	q := withAnswer("3.5", "3.1", "4.0", "2.9")

	tests := []struct {
		input string
		want  bool
	}{
		{"3.5", true},
		{"3.50", true},
		{"3.500", true},
		{" 3.5 ", true},
		{"3.6", false},
	}

	for _, tc := range tests {
		got := CheckAnswer(tc.input, q)
		if got != tc.want {
			t.Errorf("CheckAnswer(%q, 3.5/decimal) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCheckAnswer_Fraction(t *testing.T) {
	q := withAnswer("5/10", "4/10", "6/10", "9/10")

	tests := []struct {
		input string
		want  bool
	}{
		{"5/10", true},
		{"1/2", true},
		{"3/6", true},
		{" 5/10 ", true},
		{"1/3", false},
	}

	for _, tc := range tests {
		got := CheckAnswer(tc.input, q)
		if got != tc.want {
			t.Errorf("CheckAnswer(%q, 5/10/fraction) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCheckAnswer_TextCaseInsensitive(t *testing.T) {
	q := withAnswer("three quarters", "one half", "two thirds", "one quarter")

	if !CheckAnswer("Three Quarters", q) {
		t.Error("expected case-insensitive match")
	}
	if CheckAnswer("one half", q) {
		t.Error("expected wrong option not to match")
	}
}

func TestCheckAnswer_OutOfRangeIndex(t *testing.T) {
	q := withAnswer("1", "2", "3", "4")
	q.CorrectAnswer = 7
	if CheckAnswer("1", q) {
		t.Error("expected no match when the correct index is invalid")
	}
}

func TestDetectAnswerType(t *testing.T) {
	tests := map[string]AnswerType{
		"12":     AnswerTypeInteger,
		"7/10":   AnswerTypeFraction,
		"0.7":    AnswerTypeDecimal,
		"seven":  AnswerTypeText,
		" 13 ":   AnswerTypeInteger,
		"1/2 cm": AnswerTypeText,
	}
	for in, want := range tests {
		if got := DetectAnswerType(in); got != want {
			t.Errorf("DetectAnswerType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12", 12, false},
		{"7/10", 0.7, false},
		{"1.5", 1.5, false},
		{"3/0", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseValue(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseValue(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseValue(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
