package problemgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/mathquiz/internal/question"
)

// CheckAnswer reports whether a typed answer matches the correct option of q.
//
// Normalization rules:
// - Whitespace is trimmed
// - Comparison is case-insensitive
// - For fractions: equivalent fractions are accepted (e.g., "2/4" matches "1/2")
// - For decimals: trailing zeros are ignored (e.g., "3.50" matches "3.5")
// - For integers: leading zeros are ignored (e.g., "007" matches "7")
func CheckAnswer(input string, q question.Question) bool {
	input = strings.TrimSpace(input)
	correct := q.CorrectOption()
	if input == "" || correct == "" {
		return false
	}

	if strings.EqualFold(input, strings.TrimSpace(correct)) {
		return true
	}

	answerType := DetectAnswerType(correct)
	normalizedInput, err := normalizeAnswer(input, answerType)
	if err != nil {
		return false
	}
	normalizedCorrect, err := normalizeAnswer(correct, answerType)
	if err != nil {
		return false
	}
	return normalizedInput == normalizedCorrect
}

// DetectAnswerType classifies an option by its numeric form.
func DetectAnswerType(s string) AnswerType {
	s = strings.TrimSpace(s)
	if _, _, err := parseFraction(s); err == nil {
		return AnswerTypeFraction
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return AnswerTypeInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return AnswerTypeDecimal
	}
	return AnswerTypeText
}

// ParseValue parses an integer, decimal or fraction option into its value.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch DetectAnswerType(s) {
	case AnswerTypeFraction:
		num, den, _ := parseFraction(s)
		if den == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		return float64(num) / float64(den), nil
	case AnswerTypeInteger, AnswerTypeDecimal:
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("not a number: %q", s)
	}
}

// normalizeAnswer normalizes an answer string for comparison.
func normalizeAnswer(answer string, answerType AnswerType) (string, error) {
	answer = strings.TrimSpace(answer)

	switch answerType {
	case AnswerTypeInteger:
		n, err := strconv.ParseInt(answer, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid integer: %w", err)
		}
		return strconv.FormatInt(n, 10), nil

	case AnswerTypeDecimal:
		f, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return "", fmt.Errorf("invalid decimal: %w", err)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil

	case AnswerTypeFraction:
		num, den, err := parseFraction(answer)
		if err != nil {
			return "", err
		}
		if den == 0 {
			return "", fmt.Errorf("zero denominator")
		}
		// Normalize sign: negative sign on numerator only.
		if den < 0 {
			num = -num
			den = -den
		}
		g := gcd(abs(num), den)
		num /= g
		den /= g
		return fmt.Sprintf("%d/%d", num, den), nil

	default:
		return strings.ToLower(answer), nil
	}
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid fraction format: %q", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return num, den, nil
}

// gcd returns the greatest common divisor of a and b.
// Both a and b must be non-negative.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// abs returns the absolute value of n.
func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
