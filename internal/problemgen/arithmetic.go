package problemgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/abhisek/mathquiz/internal/question"
)

// DefaultMaxDistractorAttempts bounds the random draws spent on each
// distractor before falling back to the next free value above the answer.
const DefaultMaxDistractorAttempts = 100

// operandRange is the inclusive range both operands are drawn from.
type operandRange struct{ lo, hi int }

var operandRanges = map[question.Difficulty]operandRange{
	question.Easy:   {1, 10},
	question.Medium: {10, 50},
	question.Hard:   {50, 100},
}

// Arithmetic builds questions locally from two random operands. It never
// fails and is safe for concurrent use.
type Arithmetic struct {
	mu          sync.Mutex
	rng         *rand.Rand
	now         func() time.Time
	maxAttempts int
}

var _ Generator = (*Arithmetic)(nil)

// ArithmeticOption configures an Arithmetic generator.
type ArithmeticOption func(*Arithmetic)

// WithRand sets the random source. Tests pass a seeded generator.
func WithRand(r *rand.Rand) ArithmeticOption {
	return func(a *Arithmetic) { a.rng = r }
}

// WithClock sets the clock used for question IDs.
func WithClock(now func() time.Time) ArithmeticOption {
	return func(a *Arithmetic) { a.now = now }
}

// WithMaxDistractorAttempts sets the per-distractor random draw budget.
// Zero or less skips random draws entirely.
func WithMaxDistractorAttempts(n int) ArithmeticOption {
	return func(a *Arithmetic) { a.maxAttempts = n }
}

// NewArithmetic returns an Arithmetic generator.
func NewArithmetic(opts ...ArithmeticOption) *Arithmetic {
	a := &Arithmetic{
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:         time.Now,
		maxAttempts: DefaultMaxDistractorAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate implements Generator. The outcome is always successful.
func (a *Arithmetic) Generate(_ context.Context, req Request) Outcome {
	return Succeeded(a.Question(req.Topic, req.Difficulty))
}

// Question builds one question for the bucket. Unknown difficulties use
// the easy range; unknown topics are treated as addition.
func (a *Arithmetic) Question(topic question.Topic, difficulty question.Difficulty) question.Question {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := operandRanges[difficulty]
	if !ok {
		r = operandRanges[question.Easy]
	}
	x := a.between(r.lo, r.hi)
	y := a.between(r.lo, r.hi)

	p := buildProblem(topic, x, y)

	options := append([]int{p.answer}, a.distractors(p.answer)...)
	a.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return question.Question{
		ID:            question.NewID(topic, difficulty, question.SourceLocal, a.now()),
		Question:      p.text,
		Options:       lo.Map(options, func(v int, _ int) string { return p.format(v) }),
		CorrectAnswer: lo.IndexOf(options, p.answer),
		Explanation:   p.explanation,
		Difficulty:    difficulty,
		Topic:         topic,
	}
}

// problem is a question before options are chosen. answer is expressed in
// the unit format renders: whole numbers, or tenths for fractions and
// decimals.
type problem struct {
	text        string
	explanation string
	answer      int
	format      func(int) string
}

func buildProblem(topic question.Topic, x, y int) problem {
	switch topic {
	case question.Subtraction:
		big, small := max(x, y), min(x, y)
		return problem{
			text:        fmt.Sprintf("What is %d - %d?", big, small),
			explanation: fmt.Sprintf("%d - %d = %d", big, small, big-small),
			answer:      big - small,
			format:      strconv.Itoa,
		}
	case question.Multiplication:
		return problem{
			text:        fmt.Sprintf("What is %d × %d?", x, y),
			explanation: fmt.Sprintf("%d × %d = %d", x, y, x*y),
			answer:      x * y,
			format:      strconv.Itoa,
		}
	case question.Division:
		dividend := x * y
		return problem{
			text:        fmt.Sprintf("What is %d ÷ %d?", dividend, y),
			explanation: fmt.Sprintf("%d ÷ %d = %d, because %d × %d = %d", dividend, y, x, x, y, dividend),
			answer:      x,
			format:      strconv.Itoa,
		}
	case question.Fractions:
		return problem{
			text:        fmt.Sprintf("What is %s + %s?", tenthsFraction(x), tenthsFraction(y)),
			explanation: fmt.Sprintf("Add the numerators and keep the denominator: %s + %s = %s", tenthsFraction(x), tenthsFraction(y), tenthsFraction(x+y)),
			answer:      x + y,
			format:      tenthsFraction,
		}
	case question.Decimals:
		return problem{
			text:        fmt.Sprintf("What is %s + %s?", tenthsDecimal(x), tenthsDecimal(y)),
			explanation: fmt.Sprintf("%s + %s = %s", tenthsDecimal(x), tenthsDecimal(y), tenthsDecimal(x+y)),
			answer:      x + y,
			format:      tenthsDecimal,
		}
	default:
		return problem{
			text:        fmt.Sprintf("What is %d + %d?", x, y),
			explanation: fmt.Sprintf("%d + %d = %d", x, y, x+y),
			answer:      x + y,
			format:      strconv.Itoa,
		}
	}
}

func tenthsFraction(n int) string {
	return fmt.Sprintf("%d/10", n)
}

func tenthsDecimal(n int) string {
	return strconv.FormatFloat(float64(n)/10, 'f', 1, 64)
}

// distractors returns three distinct non-negative values different from
// answer. Each is drawn as answer ± [1,10]; when maxAttempts draws all
// collide, the smallest unused value above answer is taken instead.
func (a *Arithmetic) distractors(answer int) []int {
	used := map[int]bool{answer: true}
	out := make([]int, 0, question.OptionCount-1)

	for len(out) < question.OptionCount-1 {
		v, ok := a.drawDistractor(answer, used)
		if !ok {
			v = answer + 1
			for used[v] {
				v++
			}
		}
		used[v] = true
		out = append(out, v)
	}
	return out
}

func (a *Arithmetic) drawDistractor(answer int, used map[int]bool) (int, bool) {
	for range a.maxAttempts {
		offset := a.between(1, 10)
		if a.rng.IntN(2) == 0 {
			offset = -offset
		}
		v := answer + offset
		if v >= 0 && !used[v] {
			return v, true
		}
	}
	return 0, false
}

func (a *Arithmetic) between(from, to int) int {
	return from + a.rng.IntN(to-from+1)
}
