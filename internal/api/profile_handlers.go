package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
)

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.ProfileService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"profiles": profiles})
}

type createProfileRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.Create(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setProfileCookie(w, profile.ID)
	respondJSON(w, r, http.StatusCreated, profile)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid profile id"))
		return
	}

	profile, err := s.ProfileService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setProfileCookie(w, profile.ID)
	respondJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid profile id"))
		return
	}

	if err := s.ProfileService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("deleted profile %d", id)

	if cookie, cerr := r.Cookie(profileCookieName); cerr == nil && cookie.Value == idStr {
		clearProfileCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}
