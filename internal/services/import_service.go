package services

import (
	"context"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/questionbank"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
)

// ImportReport summarizes a question bank import.
type ImportReport struct {
	Parsed   int `json:"parsed"`
	Imported int `json:"imported"`
}

// ImportService loads question bank files into storage.
type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportReport, error)
	ImportData(ctx context.Context, data []byte) (*ImportReport, error)
}

type importService struct {
	questions repository.QuestionRepository
}

func NewImportService(questions repository.QuestionRepository) ImportService {
	return &importService{questions: questions}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportReport, error) {
	questions, err := questionbank.Load(path)
	if err != nil {
		return nil, errors.NewValidationError("question bank", err.Error())
	}
	return s.store(ctx, len(questions), questions)
}

func (s *importService) ImportData(ctx context.Context, data []byte) (*ImportReport, error) {
	questions, err := questionbank.Parse(data)
	if err != nil {
		return nil, errors.NewValidationError("question bank", err.Error())
	}
	return s.store(ctx, len(questions), questions)
}

func (s *importService) store(ctx context.Context, parsed int, questions []models.Question) (*ImportReport, error) {
	imported, err := s.questions.ImportBatch(ctx, questions)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("imported %d/%d questions", imported, parsed)
	return &ImportReport{Parsed: parsed, Imported: imported}, nil
}
