package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/profiles", s.handleProfiles)
	r.Post("/profiles", s.handleCreateProfile)
	r.Post("/profiles/{id}/select", s.handleSelectProfile)
	r.Post("/profiles/{id}/delete", s.handleDeleteProfile)

	r.Get("/questions", s.handleQuestions)
	r.Get("/questions/{number}", s.handleQuestionDetail)
	r.Post("/questions/{number}/check", s.handleCheckAnswer)
	r.Post("/questions/import", s.handleImport)

	r.Group(func(r chi.Router) {
		r.Use(s.profileMiddleware)
		r.Post("/study/session", s.handleStartSession)
		r.Get("/study/next", s.handleNextGroup)
		r.Post("/study/answer", s.handleAnswer)
		r.Post("/study/skip", s.handleSkip)
		r.Get("/study/stats", s.handleStats)
	})

	return r
}
