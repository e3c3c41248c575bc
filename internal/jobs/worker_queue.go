package jobs

import (
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/worker"
)

// WorkerQueue implements JobQueue on top of a worker pool.
type WorkerQueue struct {
	pool     *worker.Pool
	cards    repository.CardRepository
	sessions repository.SessionRepository
	retries  int
}

// NewWorkerQueue creates a JobQueue backed by the given pool.
func NewWorkerQueue(pool *worker.Pool, cards repository.CardRepository, sessions repository.SessionRepository, retries int) JobQueue {
	return &WorkerQueue{pool: pool, cards: cards, sessions: sessions, retries: retries}
}

func (q *WorkerQueue) EnqueueCardSave(card models.Card, event models.ReviewEvent) error {
	return q.pool.Submit(&worker.SaveCardJob{
		Cards:   q.cards,
		Card:    card,
		Event:   event,
		Retries: q.retries,
	})
}

func (q *WorkerQueue) EnqueueSnapshot(state *session.State) error {
	return q.pool.Submit(&worker.SnapshotJob{
		Sessions: q.sessions,
		State:    state,
	})
}
