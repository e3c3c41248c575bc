package services

import (
	"context"
	"strings"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/grading"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
)

// CheckResult is the outcome of grading a submitted choice.
type CheckResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// QuestionService exposes the question bank and answer grading.
type QuestionService interface {
	Get(ctx context.Context, number string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, int, error)
	Check(ctx context.Context, number string, answer string) (*CheckResult, error)
}

type questionService struct {
	questions repository.QuestionRepository
}

func NewQuestionService(questions repository.QuestionRepository) QuestionService {
	return &questionService{questions: questions}
}

func (s *questionService) Get(ctx context.Context, number string) (*models.Question, error) {
	q, err := s.questions.GetByNumber(ctx, number)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if q == nil {
		return nil, errors.NewNotFoundError("question", number)
	}
	return q, nil
}

func (s *questionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, int, error) {
	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.questions.Count(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	return questions, total, nil
}

func (s *questionService) Check(ctx context.Context, number string, answer string) (*CheckResult, error) {
	q, err := s.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}

	correct := false
	if q.Kind == models.GroupOrdering {
		// Ordering answers are comma-separated sequences.
		correct = grading.CheckOrder(splitSequence(answer), splitSequence(q.CorrectAnswer))
	} else {
		correct = grading.CheckChoice(answer, q.CorrectAnswer)
	}
	return &CheckResult{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
	}, nil
}

func splitSequence(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
