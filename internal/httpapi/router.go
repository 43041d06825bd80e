package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"math-quiz/internal/auth"
)

type RouterOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewRouter(api *API, tokens *auth.TokenIssuer, opts RouterOptions) http.Handler {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(api.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	r.Get("/healthz", api.HandleHealth)
	r.Post("/auth/register", api.HandleRegister)
	r.Post("/auth/login", api.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(tokens))

		pr.Get("/quizzes", api.HandleListQuizzes)
		pr.Post("/quizzes", api.HandleCreateQuiz)
		pr.Get("/quizzes/new", api.HandleNewQuestions)
		pr.Get("/quizzes/{quiz_id}", api.HandleGetQuiz)
		pr.Put("/quizzes/{quiz_id}/answers", api.HandleUpdateAnswers)
		pr.Delete("/quizzes/{quiz_id}", api.HandleDeleteQuiz)
	})

	return r
}
