package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/abhisek/mathquiz/internal/question"
	"github.com/abhisek/mathquiz/internal/store"
)

const (
	errInvalidRequest = "invalid_request"
	errGenerateFailed = "Failed to generate question"
	errListFailed     = "Failed to load questions"

	maxBodyBytes = 1 << 16
)

type errorResponse struct {
	Error string `json:"error"`
}

type generateRequest struct {
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

type statsResponse struct {
	Total   int                 `json:"total"`
	Buckets []store.BucketCount `json:"buckets"`
}

func (s *server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}

	topic, err := question.ParseTopic(req.Topic)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	difficulty, err := question.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}

	q, err := s.svc.Next(r.Context(), topic, difficulty)
	if err != nil {
		s.logger.Error("generate question",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("topic", string(topic)),
			zap.String("difficulty", string(difficulty)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, errGenerateFailed)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var topic question.Topic
	if v := query.Get("topic"); v != "" {
		t, err := question.ParseTopic(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalidRequest)
			return
		}
		topic = t
	}
	var difficulty question.Difficulty
	if v := query.Get("difficulty"); v != "" {
		d, err := question.ParseDifficulty(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalidRequest)
			return
		}
		difficulty = d
	}
	limit := 0
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errInvalidRequest)
			return
		}
		limit = n
	}

	all, err := s.repo.All(r.Context())
	if err != nil {
		s.logger.Error("list questions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errListFailed)
		return
	}

	qs := lo.Filter(all, func(q question.Question, _ int) bool {
		return (topic == "" || q.Topic == topic) && (difficulty == "" || q.Difficulty == difficulty)
	})
	if limit > 0 && len(qs) > limit {
		qs = qs[len(qs)-limit:]
	}
	if qs == nil {
		qs = []question.Question{}
	}

	writeJSON(w, http.StatusOK, qs)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.repo.Stats(r.Context())
	if err != nil {
		s.logger.Error("question stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errListFailed)
		return
	}
	if buckets == nil {
		buckets = []store.BucketCount{}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Total:   lo.SumBy(buckets, func(b store.BucketCount) int { return b.Count }),
		Buckets: buckets,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
