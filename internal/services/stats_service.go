package services

import (
	"context"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
)

// StudyStats bundles card totals with the per-subject breakdown.
type StudyStats struct {
	Cards    *models.CardStat     `json:"cards"`
	Subjects []models.SubjectStat `json:"subjects"`
}

// StatsService reports scheduling progress for a profile.
type StatsService interface {
	Stats(ctx context.Context, profileID int64) (*StudyStats, error)
}

type statsService struct {
	stats repository.StatsRepository
}

func NewStatsService(stats repository.StatsRepository) StatsService {
	return &statsService{stats: stats}
}

func (s *statsService) Stats(ctx context.Context, profileID int64) (*StudyStats, error) {
	cards, err := s.stats.CardStats(ctx, profileID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	subjects, err := s.stats.SubjectStats(ctx, profileID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &StudyStats{Cards: cards, Subjects: subjects}, nil
}
