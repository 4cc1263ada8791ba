package quiz

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathquiz/internal/question"
)

// SeedResult counts the questions a Seed run added.
type SeedResult struct {
	Remote int
	Local  int
}

// Total returns the number of questions added.
func (r SeedResult) Total() int { return r.Remote + r.Local }

// Seed generates perBucket fresh questions for every (topic, difficulty)
// bucket, running at most concurrency generations at once. It stops at the
// first context error.
func (s *Service) Seed(ctx context.Context, perBucket, concurrency int) (SeedResult, error) {
	var remote, local atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for _, topic := range question.Topics() {
		for _, difficulty := range question.Difficulties() {
			for range perBucket {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					existing, err := s.repo.Find(gctx, topic, difficulty)
					if err != nil {
						existing = nil
					}
					q, src, err := s.fresh(gctx, topic, difficulty, existing)
					if err != nil {
						return err
					}
					if src == question.SourceRemote {
						remote.Add(1)
					} else {
						local.Add(1)
					}
					s.logger.Debug("seeded question", zap.String("id", q.ID))
					return nil
				})
			}
		}
	}

	err := g.Wait()
	return SeedResult{Remote: int(remote.Load()), Local: int(local.Load())}, err
}
