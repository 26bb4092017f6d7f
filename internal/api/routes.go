package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.authMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/users/{id}", s.handleGetUser)

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", s.handleCurrentQuiz)
			r.Post("/start", s.handleStartQuiz)
			r.Post("/answer", s.handleAnswer)
			r.Post("/elapsed", s.handleRecordElapsed)
			r.Post("/goto", s.handleGoTo)
			r.Post("/next", s.handleNext)
			r.Post("/previous", s.handlePrevious)
			r.Post("/submit", s.handleSubmit)
			r.Post("/abandon", s.handleAbandon)
		})

		r.Get("/history", s.handleHistory)
		r.Get("/results/{id}", s.handleReport)
		r.Get("/stats", s.handleStats)
		r.Get("/topics", s.handleTopics)
	})

	return r
}
