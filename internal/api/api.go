// Package api serves the quiz, report and account operations over HTTP
// for browser clients.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/catalog"
	"github.com/abhisek/kotoba/internal/coach"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
)

// Deps are the services the API is built on.
type Deps struct {
	Auth    *auth.Service
	Catalog catalog.Provider
	Engine  *quiz.Engine
	Tracker *report.Tracker
	Coach   *coach.Service // optional
	Logger  *zap.Logger
}

// Options configures the HTTP surface.
type Options struct {
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string

	// QuizTTL bounds how long an unfinished quiz is kept in memory.
	QuizTTL time.Duration

	Now func() time.Time
}

// Server holds the handlers' dependencies.
type Server struct {
	deps    Deps
	tokens  *tokens
	quizzes *registry
	origins []string
	log     *zap.Logger
}

// New creates a Server.
func New(deps Deps, opts Options) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Coach == nil {
		deps.Coach = coach.New(nil, coach.DefaultConfig(), deps.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.QuizTTL <= 0 {
		opts.QuizTTL = 6 * time.Hour
	}
	return &Server{
		deps:    deps,
		tokens:  newTokens(opts.JWTSecret, opts.TokenTTL, opts.Now),
		quizzes: newRegistry(opts.QuizTTL, opts.Now),
		origins: opts.CORSOrigins,
		log:     deps.Logger,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Get("/questions", s.handleQuestions)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/me", s.handleMe)
			r.Post("/quizzes", s.handleCreateQuiz)
			r.Route("/quizzes/{quizID}", func(r chi.Router) {
				r.Get("/", s.handleGetQuiz)
				r.Post("/answer", s.handleAnswer)
				r.Post("/next", s.handleNext)
				r.Post("/prev", s.handlePrev)
				r.Post("/finish", s.handleFinish)
				r.Get("/stats", s.handleStats)
			})
			r.Get("/report", s.handleReport)
			r.Get("/report/coach", s.handleCoach)
			r.Get("/history", s.handleHistory)
		})
	})
	return r
}
