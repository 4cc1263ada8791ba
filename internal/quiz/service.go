package quiz

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/abhisek/mathquiz/internal/logging"
	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/question"
	"github.com/abhisek/mathquiz/internal/store"
)

// Service serves one question per request, choosing between a stored
// question and a freshly generated one.
type Service struct {
	repo   store.QuestionRepo
	remote problemgen.Generator
	local  *problemgen.Arithmetic
	policy ReusePolicy
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRemote sets the remote generator tried before the local one. Without
// it every fresh question is generated locally.
func WithRemote(g problemgen.Generator) Option {
	return func(s *Service) { s.remote = g }
}

// WithPolicy replaces the default coin flip.
func WithPolicy(p ReusePolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l).Named("quiz") }
}

// WithRand sets the source used to pick among stored matches.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// NewService returns a Service storing into repo and falling back to local.
func NewService(repo store.QuestionRepo, local *problemgen.Arithmetic, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		local:  local,
		policy: NewCoinFlip(DefaultReuseProbability, nil),
		logger: zap.NewNop(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns a question for the bucket. Store and generator failures
// degrade to the next option; the only error is ctx's.
func (s *Service) Next(ctx context.Context, topic question.Topic, difficulty question.Difficulty) (question.Question, error) {
	if err := ctx.Err(); err != nil {
		return question.Question{}, err
	}

	matches, err := s.repo.Find(ctx, topic, difficulty)
	if err != nil {
		s.logger.Warn("find stored questions",
			zap.String("topic", string(topic)),
			zap.String("difficulty", string(difficulty)),
			zap.Error(err),
		)
		matches = nil
	}

	if len(matches) > 0 && s.policy.Reuse(len(matches)) {
		q := matches[s.pick(len(matches))]
		s.logger.Debug("reused stored question", zap.String("id", q.ID))
		return q, nil
	}

	q, _, err := s.fresh(ctx, topic, difficulty, matches)
	return q, err
}

// fresh generates, persists and returns a new question. The remote
// generator is tried first when configured.
func (s *Service) fresh(ctx context.Context, topic question.Topic, difficulty question.Difficulty, existing []question.Question) (question.Question, question.Source, error) {
	req := problemgen.Request{
		Topic:      topic,
		Difficulty: difficulty,
		Avoid:      lo.Map(existing, func(q question.Question, _ int) string { return q.Question }),
	}

	if s.remote != nil {
		if out := s.remote.Generate(ctx, req); out.OK() {
			s.persist(ctx, out.Question)
			return out.Question, question.SourceRemote, nil
		}
		if err := ctx.Err(); err != nil {
			return question.Question{}, "", err
		}
	}

	q := s.local.Question(topic, difficulty)
	s.persist(ctx, q)
	return q, question.SourceLocal, nil
}

// persist stores q. A failure is logged; the question is still served.
func (s *Service) persist(ctx context.Context, q question.Question) {
	if err := s.repo.Put(context.WithoutCancel(ctx), q); err != nil {
		s.logger.Error("persist question",
			zap.String("id", q.ID),
			zap.String("topic", string(q.Topic)),
			zap.String("difficulty", string(q.Difficulty)),
			zap.Error(err),
		)
	}
}

func (s *Service) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
