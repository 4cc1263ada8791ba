package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/mathquiz/internal/logging"
	"github.com/abhisek/mathquiz/internal/question"
	"github.com/abhisek/mathquiz/internal/store"
)

// QuestionService serves one question per request.
type QuestionService interface {
	Next(ctx context.Context, topic question.Topic, difficulty question.Difficulty) (question.Question, error)
}

// Config holds HTTP-level settings.
type Config struct {
	// AllowedOrigins lists the CORS origins allowed to call the API.
	AllowedOrigins []string
}

// DefaultAllowedOrigins is used when Config.AllowedOrigins is empty.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

type server struct {
	svc    QuestionService
	repo   store.QuestionRepo
	logger *zap.Logger
}

// NewHandler builds the HTTP handler for the quiz API.
func NewHandler(svc QuestionService, repo store.QuestionRepo, cfg Config, logger *zap.Logger) http.Handler {
	logger = logging.OrNop(logger).Named("http")
	s := &server{svc: svc, repo: repo, logger: logger}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(logger))
	r.Use(recoverJSON(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-quiz", s.handleGenerateQuiz)
		r.Get("/questions", s.handleListQuestions)
		r.Get("/questions/stats", s.handleStats)
	})

	return r
}
