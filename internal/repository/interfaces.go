package repository

import (
	"context"
	"time"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
)

// CardRepository is the card store: per-profile, per-question
// scheduling state. Get returns (nil, nil) for a question never
// reviewed; that is the signal to seed a default card, not an error.
type CardRepository interface {
	Get(ctx context.Context, profileID int64, questionID string) (*models.Card, error)
	Put(ctx context.Context, card models.Card) (models.Card, error)
	AppendReview(ctx context.Context, cardID int64, event models.ReviewEvent) error
	ListByProfile(ctx context.Context, profileID int64) (map[string]models.Card, error)
	DueQuestionIDs(ctx context.Context, profileID int64, now time.Time) ([]string, error)
}

// QuestionRepository is the read-mostly question bank. ImportBatch is
// the only mutation and exists for loading bank files.
type QuestionRepository interface {
	GetByNumber(ctx context.Context, number string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	Count(ctx context.Context, filter models.QuestionFilter) (int, error)
	ImportBatch(ctx context.Context, questions []models.Question) (int, error)
}

// SessionRepository persists queue-state snapshots so a session can
// survive a restart. The in-memory state stays authoritative; snapshots
// are best-effort.
type SessionRepository interface {
	Load(ctx context.Context, profileID int64) (*session.State, error)
	Save(ctx context.Context, state *session.State) error
	Delete(ctx context.Context, profileID int64) error
}

// ProfileRepository handles study profiles.
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, name string) (*models.Profile, error)
	UpdateLastStudied(ctx context.Context, id int64, t time.Time) error
	Delete(ctx context.Context, id int64) error
}

// StatsRepository aggregates scheduling state for reporting.
type StatsRepository interface {
	CardStats(ctx context.Context, profileID int64) (*models.CardStat, error)
	SubjectStats(ctx context.Context, profileID int64) ([]models.SubjectStat, error)
}
