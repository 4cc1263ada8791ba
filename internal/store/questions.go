package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathquiz/internal/question"
)

var questionColumns = []string{
	"id", "topic", "difficulty", "question", "options", "correct_answer", "explanation",
}

// SQLStore is a QuestionRepo on the questions table of a Store.
type SQLStore struct {
	db *sql.DB
}

var _ QuestionRepo = (*SQLStore)(nil)

func (s *SQLStore) Find(ctx context.Context, topic question.Topic, difficulty question.Difficulty) ([]question.Question, error) {
	return s.query(ctx, entsql.And(
		entsql.EQ("topic", string(topic)),
		entsql.EQ("difficulty", string(difficulty)),
	))
}

func (s *SQLStore) All(ctx context.Context) ([]question.Question, error) {
	return s.query(ctx, nil)
}

func (s *SQLStore) Put(ctx context.Context, q question.Question) error {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(QuestionsTable.Name).
		Columns(append(questionColumns, "created_at")...).
		Values(
			q.ID, string(q.Topic), string(q.Difficulty), q.Question,
			string(opts), q.CorrectAnswer, q.Explanation, time.Now().UTC(),
		).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert question %s: %w", q.ID, err)
	}
	return nil
}

func (s *SQLStore) Stats(ctx context.Context) ([]BucketCount, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("topic", "difficulty", entsql.As(entsql.Count("*"), "n")).
		From(entsql.Table(QuestionsTable.Name)).
		GroupBy("topic", "difficulty").
		OrderBy("topic", "difficulty").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query question stats: %w", err)
	}
	defer rows.Close()

	var out []BucketCount
	for rows.Next() {
		var bc BucketCount
		if err := rows.Scan(&bc.Topic, &bc.Difficulty, &bc.Count); err != nil {
			return nil, fmt.Errorf("scan question stats: %w", err)
		}
		out = append(out, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortBuckets(out)
	return out, nil
}

func (s *SQLStore) query(ctx context.Context, where *entsql.Predicate) ([]question.Question, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(questionColumns...).
		From(entsql.Table(QuestionsTable.Name))
	if where != nil {
		sel.Where(where)
	}
	query, args := sel.OrderBy("rowid").Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []question.Question
	for rows.Next() {
		var (
			q    question.Question
			opts string
		)
		if err := rows.Scan(&q.ID, &q.Topic, &q.Difficulty, &q.Question, &opts, &q.CorrectAnswer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
