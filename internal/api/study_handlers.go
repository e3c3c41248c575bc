package api

import (
	"net/http"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
)

type startSessionRequest struct {
	NewCardsPerDay int `json:"new_cards_per_day"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	if profile == nil {
		handleError(w, r, errors.NewBadRequestError("no profile selected"))
		return
	}

	req := startSessionRequest{NewCardsPerDay: s.NewCardsPerDay}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	summary, err := s.SessionService.Start(r.Context(), profile.ID, req.NewCardsPerDay)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, summary)
}

func (s *Server) handleNextGroup(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	if profile == nil {
		handleError(w, r, errors.NewBadRequestError("no profile selected"))
		return
	}

	view, err := s.SessionService.Next(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

type answerRequest struct {
	Quality int `json:"quality"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	if profile == nil {
		handleError(w, r, errors.NewBadRequestError("no profile selected"))
		return
	}

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.SessionService.Answer(r.Context(), profile.ID, req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	if profile == nil {
		handleError(w, r, errors.NewBadRequestError("no profile selected"))
		return
	}

	view, err := s.SessionService.Skip(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	if profile == nil {
		handleError(w, r, errors.NewBadRequestError("no profile selected"))
		return
	}

	stats, err := s.StatsService.Stats(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}
