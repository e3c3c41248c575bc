package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
)

// SaveCardJob retries a card write that failed on the request path. The
// scheduler already computed a valid next state, so the write can be
// replayed as-is without recomputing.
type SaveCardJob struct {
	Cards   repository.CardRepository
	Card    models.Card
	Event   models.ReviewEvent
	Retries int
}

func (j *SaveCardJob) Name() string {
	return fmt.Sprintf("save-card %d/%s", j.Card.ProfileID, j.Card.QuestionID)
}

func (j *SaveCardJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	attempts := j.Retries
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var saved models.Card
		saved, err = j.Cards.Put(ctx, j.Card)
		if err == nil {
			if saved.ID != 0 {
				err = j.Cards.AppendReview(ctx, saved.ID, j.Event)
			}
			if err == nil {
				return nil
			}
		}
		log.Warn("card save attempt %d/%d failed: %v", attempt, attempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		}
	}
	return err
}

// SnapshotJob persists a copy of the session queue state.
type SnapshotJob struct {
	Sessions repository.SessionRepository
	State    *session.State
}

func (j *SnapshotJob) Name() string {
	return fmt.Sprintf("session-snapshot %d", j.State.ProfileID)
}

func (j *SnapshotJob) Run(ctx context.Context) error {
	return j.Sessions.Save(ctx, j.State)
}
