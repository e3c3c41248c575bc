package scheduler

import (
	"time"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
)

// ApplyWithPolicy schedules a review with the required-question lapse
// override. A "hard" rating on a required question is treated as a full
// lapse: repetition resets, the interval collapses to RetryInterval and
// the ease factor drops by RequiredLapsePenalty, so must-pass content a
// learner finds merely difficult keeps coming back instead of drifting
// out on a shrunk-but-multi-day interval.
//
// Anything else delegates to Apply unchanged.
func ApplyWithPolicy(card models.Card, quality int, required bool, now time.Time, p Params) models.Card {
	if !required || quality != QualityHard {
		return Apply(card, quality, now, p)
	}

	ef := card.EaseFactor
	if ef == 0 {
		ef = models.InitialEaseFactor
	}
	ef = floorEase(ef - p.RequiredLapsePenalty)

	card.EaseFactor = ef
	card.Repetition = 0
	card.IntervalDays = RetryInterval
	card.DueAt = now.Add(10 * time.Minute)
	card.LastQuality = quality
	card.History = append(card.History, models.ReviewEvent{
		Quality:      quality,
		IntervalDays: RetryInterval,
		EaseFactor:   ef,
		ReviewedAt:   now,
	})
	return card
}
