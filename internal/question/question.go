package question

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Question is a single multiple-choice arithmetic question as served to
// clients and persisted in the question store.
type Question struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Topic         Topic      `json:"topic"`
}

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Source tags the generator a question came from. It is embedded in the ID.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "ai"
)

// Difficulty controls operand magnitude and the audience of remote prompts.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Topic is the arithmetic operation a question exercises.
type Topic string

const (
	Addition       Topic = "addition"
	Subtraction    Topic = "subtraction"
	Multiplication Topic = "multiplication"
	Division       Topic = "division"
	Fractions      Topic = "fractions"
	Decimals       Topic = "decimals"
)

var (
	ErrUnknownTopic      = errors.New("unknown topic")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Topics lists every topic in display order.
func Topics() []Topic {
	return []Topic{Addition, Subtraction, Multiplication, Division, Fractions, Decimals}
}

// Difficulties lists every difficulty from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseTopic parses a topic name. An empty string yields Addition.
func ParseTopic(s string) (Topic, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Addition, nil
	}
	t := Topic(s)
	if !lo.Contains(Topics(), t) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTopic, s)
	}
	return t, nil
}

// ParseDifficulty parses a difficulty name. An empty string yields Easy.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Easy, nil
	}
	d := Difficulty(s)
	if !lo.Contains(Difficulties(), d) {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// NewID builds a question ID from its bucket, source and creation time.
// IDs created within the same nanosecond for the same bucket collide.
func NewID(t Topic, d Difficulty, src Source, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%d", t, d, src, at.UnixNano())
}

// Matches reports whether q belongs to the (topic, difficulty) bucket.
func (q Question) Matches(t Topic, d Difficulty) bool {
	return q.Topic == t && q.Difficulty == d
}

// CorrectOption returns the text of the correct option, or "" when the
// index is out of range.
func (q Question) CorrectOption() string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswer]
}

// HasDistinctOptions reports whether no two options are equal.
func (q Question) HasDistinctOptions() bool {
	return len(lo.Uniq(q.Options)) == len(q.Options)
}
