package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
)

const maxImportBytes = 32 << 20

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.QuestionFilter{
		Subject:      q.Get("subject"),
		NumberPrefix: q.Get("prefix"),
		RequiredOnly: q.Get("required") == "true",
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			handleError(w, r, errors.NewBadRequestError("invalid limit"))
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			handleError(w, r, errors.NewBadRequestError("invalid offset"))
			return
		}
		filter.Offset = offset
	}

	questions, total, err := s.QuestionService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"questions": questions,
		"total":     total,
	})
}

func (s *Server) handleQuestionDetail(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	question, err := s.QuestionService.Get(r.Context(), number)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, question)
}

type checkAnswerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	var req checkAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.QuestionService.Check(r.Context(), number, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

// handleImport loads a question bank: either the JSON body itself, or
// the configured bank file when the body is empty.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read request body"))
		return
	}

	var report any
	if len(body) > 0 {
		report, err = s.ImportService.ImportData(r.Context(), body)
	} else {
		if s.QuestionBankPath == "" {
			handleError(w, r, errors.NewBadRequestError("no question bank configured and empty body"))
			return
		}
		log.Info("importing question bank from %s", s.QuestionBankPath)
		report, err = s.ImportService.ImportFile(r.Context(), s.QuestionBankPath)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, report)
}
