package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/abhisek/mathquiz/internal/logging"
	"github.com/abhisek/mathquiz/internal/question"
)

// FileStore keeps every question in a single JSON array file. Reads fail
// open: a missing, unreadable, or corrupt file reads as empty.
//
// Writers within one process are serialized, and each write replaces the file
// atomically. Separate processes sharing the file race last-writer-wins.
type FileStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

var _ QuestionRepo = (*FileStore)(nil)

// NewFileStore returns a FileStore for path. The file is created lazily.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logging.OrNop(logger).Named("store"),
	}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the full persisted sequence in insertion order. It never
// fails: problems are logged and an empty sequence is returned. A missing
// file is created as an empty array.
func (s *FileStore) Load(ctx context.Context) []question.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append adds q to the end of the persisted sequence and rewrites the file.
func (s *FileStore) Append(ctx context.Context, q question.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs := append(s.load(), q)
	if err := s.write(qs); err != nil {
		s.logger.Error("write question file",
			zap.String("path", s.path),
			zap.String("id", q.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *FileStore) Find(ctx context.Context, topic question.Topic, difficulty question.Difficulty) ([]question.Question, error) {
	return lo.Filter(s.Load(ctx), func(q question.Question, _ int) bool {
		return q.Matches(topic, difficulty)
	}), nil
}

func (s *FileStore) Put(ctx context.Context, q question.Question) error {
	return s.Append(ctx, q)
}

func (s *FileStore) All(ctx context.Context) ([]question.Question, error) {
	return s.Load(ctx), nil
}

func (s *FileStore) Stats(ctx context.Context) ([]BucketCount, error) {
	return countBuckets(s.Load(ctx)), nil
}

// load reads the file. Callers hold mu.
func (s *FileStore) load() []question.Question {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			s.logger.Warn("create question file", zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}
	if err != nil {
		s.logger.Warn("read question file", zap.String("path", s.path), zap.Error(err))
		return nil
	}

	var qs []question.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		s.logger.Warn("parse question file", zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return qs
}

// write replaces the file with qs via a temp file and rename.
func (s *FileStore) write(qs []question.Question) error {
	if qs == nil {
		qs = []question.Question{}
	}
	if err := EnsureDir(s.path); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".questions-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// countBuckets groups qs by (topic, difficulty) in a stable order.
func countBuckets(qs []question.Question) []BucketCount {
	counts := lo.CountValuesBy(qs, func(q question.Question) BucketCount {
		return BucketCount{Topic: q.Topic, Difficulty: q.Difficulty}
	})

	var out []BucketCount
	for _, t := range question.Topics() {
		for _, d := range question.Difficulties() {
			if n := counts[BucketCount{Topic: t, Difficulty: d}]; n > 0 {
				out = append(out, BucketCount{Topic: t, Difficulty: d, Count: n})
			}
		}
	}
	return out
}
