package problemgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/abhisek/mathquiz/internal/llm"
	"github.com/abhisek/mathquiz/internal/logging"
	"github.com/abhisek/mathquiz/internal/question"
)

// ErrMalformedReply is the failure reason when the model reply is not a
// question-shaped JSON object.
var ErrMalformedReply = errors.New("malformed reply")

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
	now      func() time.Time
}

var _ Generator = (*LLMGenerator)(nil)

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *LLMGenerator {
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		logger:   logging.OrNop(logger).Named("problemgen"),
		now:      time.Now,
	}
}

// questionOutput is the raw LLM response before validation. Keys other than
// these are ignored.
type questionOutput struct {
	Question      string       `json:"question"`
	Options       []optionText `json:"options"`
	CorrectAnswer *float64     `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
}

// optionText decodes an option written either as a string or as a bare
// number literal, keeping the number's text as written.
type optionText string

func (o *optionText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = optionText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("option %s is neither text nor a number", b)
	}
	*o = optionText(n.String())
	return nil
}

// Generate asks the model for one question. Every failure, including a
// panic in the provider, is logged and returned as a failed Outcome.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed(fmt.Errorf("provider panic: %v", r))
		}
		if !out.OK() {
			g.logger.Warn("remote generation failed",
				zap.String("topic", string(req.Topic)),
				zap.String("difficulty", string(req.Difficulty)),
				zap.Error(out.Failure),
			)
		}
	}()

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestion)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, g.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return Failed(fmt.Errorf("LLM generation failed: %w", err))
	}

	q, err := g.parse(resp.Content, req)
	if err != nil {
		return Failed(err)
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(&q); verr != nil {
			return Failed(verr)
		}
	}

	return Succeeded(q)
}

func (g *LLMGenerator) parse(content json.RawMessage, req Request) (question.Question, error) {
	var raw questionOutput
	if err := json.Unmarshal([]byte(llm.StripCodeFence(string(content))), &raw); err != nil {
		return question.Question{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if raw.CorrectAnswer == nil {
		return question.Question{}, fmt.Errorf("%w: correctAnswer is missing", ErrMalformedReply)
	}
	idx := *raw.CorrectAnswer
	if idx != math.Trunc(idx) {
		return question.Question{}, fmt.Errorf("%w: correctAnswer %v is not an index", ErrMalformedReply, idx)
	}

	return question.Question{
		ID:            question.NewID(req.Topic, req.Difficulty, question.SourceRemote, g.now()),
		Question:      raw.Question,
		Options:       lo.Map(raw.Options, func(o optionText, _ int) string { return string(o) }),
		CorrectAnswer: int(idx),
		Explanation:   raw.Explanation,
		Difficulty:    req.Difficulty,
		Topic:         req.Topic,
	}, nil
}
