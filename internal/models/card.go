package models

import "time"

// SM-2 seed values for a question that has never been reviewed.
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Card holds the spaced-repetition scheduling state for one
// (profile, question) pair. It is created on first review, not on display.
type Card struct {
	ID           int64         `json:"id"`
	ProfileID    int64         `json:"profile_id"`
	QuestionID   string        `json:"question_id"`
	Repetition   int           `json:"repetition"`
	EaseFactor   float64       `json:"ease_factor"`
	IntervalDays float64       `json:"interval_days"`
	DueAt        time.Time     `json:"due_at"`
	LastQuality  int           `json:"last_quality"`
	History      []ReviewEvent `json:"history,omitempty"`
	// ReviewCount mirrors the stored history length when the events
	// themselves are not loaded.
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewEvent is one entry of a card's append-only review log.
type ReviewEvent struct {
	ID           int64     `json:"id"`
	CardID       int64     `json:"card_id"`
	Quality      int       `json:"quality"`
	IntervalDays float64   `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// NewCard returns a card seeded with SM-2 defaults for a question that
// has not been studied yet.
func NewCard(profileID int64, questionID string) Card {
	return Card{
		ProfileID:  profileID,
		QuestionID: questionID,
		EaseFactor: InitialEaseFactor,
	}
}

// Reviewed reports whether the card has been studied at least once. A
// card stays "reviewed" after a lapse reset because its history is
// never truncated.
func (c Card) Reviewed() bool {
	return c.Repetition > 0 || len(c.History) > 0 || c.ReviewCount > 0
}
