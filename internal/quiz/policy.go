package quiz

import (
	"math/rand/v2"
	"sync"
)

// DefaultReuseProbability is the chance a request with stored matches is
// served from the store.
const DefaultReuseProbability = 0.5

// ReusePolicy decides whether a request is served from stored questions.
// It is only consulted when at least one match exists.
type ReusePolicy interface {
	Reuse(matches int) bool
}

// ReuseFunc adapts a function to ReusePolicy.
type ReuseFunc func(matches int) bool

func (f ReuseFunc) Reuse(matches int) bool { return f(matches) }

// Always and Never are fixed policies.
var (
	Always ReusePolicy = ReuseFunc(func(int) bool { return true })
	Never  ReusePolicy = ReuseFunc(func(int) bool { return false })
)

// CoinFlip reuses with a fixed probability regardless of how many matches
// exist.
type CoinFlip struct {
	p   float64
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCoinFlip returns a CoinFlip that reuses with probability p. A nil rng
// uses a randomly seeded source.
func NewCoinFlip(p float64, rng *rand.Rand) *CoinFlip {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &CoinFlip{p: p, rng: rng}
}

func (c *CoinFlip) Reuse(int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Float64() < c.p
}
