package store

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/abhisek/mathquiz/internal/question"
)

// QuestionRepo is the keyed question store. Adapters must only ever grow.
type QuestionRepo interface {
	// Find returns every stored question for the bucket, oldest first.
	Find(ctx context.Context, topic question.Topic, difficulty question.Difficulty) ([]question.Question, error)

	// Put appends q to the store.
	Put(ctx context.Context, q question.Question) error

	// All returns every stored question, oldest first.
	All(ctx context.Context) ([]question.Question, error)

	// Stats returns the number of stored questions per bucket.
	Stats(ctx context.Context) ([]BucketCount, error)
}

// BucketCount is the number of stored questions for one (topic, difficulty).
type BucketCount struct {
	Topic      question.Topic      `json:"topic"`
	Difficulty question.Difficulty `json:"difficulty"`
	Count      int                 `json:"count"`
}

// sortBuckets orders counts by topic, then difficulty, in the order
// question.Topics and question.Difficulties list them. Unknown values sort last.
func sortBuckets(counts []BucketCount) {
	rank := func(i int) (int, int) {
		t := lo.IndexOf(question.Topics(), counts[i].Topic)
		d := lo.IndexOf(question.Difficulties(), counts[i].Difficulty)
		if t < 0 {
			t = len(question.Topics())
		}
		if d < 0 {
			d = len(question.Difficulties())
		}
		return t, d
	}
	sort.SliceStable(counts, func(i, j int) bool {
		ti, di := rank(i)
		tj, dj := rank(j)
		if ti != tj {
			return ti < tj
		}
		return di < dj
	})
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to the LLM event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns the event with the given ID, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
