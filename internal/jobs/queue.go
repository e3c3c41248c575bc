package jobs

import (
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
)

// JobQueue abstracts background persistence work so services can hand
// off best-effort writes without knowing about worker pools.
type JobQueue interface {
	EnqueueCardSave(card models.Card, event models.ReviewEvent) error
	EnqueueSnapshot(state *session.State) error
}
