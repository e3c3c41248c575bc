package scheduler

import (
	"math"
	"time"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
)

// Quality is the 1..5 self-evaluation scale submitted after a group.
// Below QualityGood counts as a failure and collapses the interval to a
// short retry window; Good and above feeds interval growth.
const (
	QualityAgain    = 1
	QualityHard     = 2
	QualityGood     = 3
	QualityEasy     = 4
	QualityVeryEasy = 5
)

// RetryInterval is the short window a failed card comes back after,
// expressed in days (10 minutes).
const RetryInterval = 10.0 / 1440.0

// Params tunes the SM-2 variant. Zero value is not usable; start from
// DefaultParams.
type Params struct {
	// EasyBonus multiplies the computed interval on a quality-5 review.
	// Set to 1 to disable the bonus.
	EasyBonus float64
	// AgainPenalty and HardPenalty are subtracted from the ease factor
	// on quality 1 and 2 respectively, floored at models.MinEaseFactor.
	AgainPenalty float64
	HardPenalty  float64
	// RequiredLapsePenalty is the ease decay applied when a required
	// question is rated hard (see ApplyWithPolicy).
	RequiredLapsePenalty float64
}

// DefaultParams returns the tuning used in production.
func DefaultParams() Params {
	return Params{
		EasyBonus:            1.3,
		AgainPenalty:         0.3,
		HardPenalty:          0.15,
		RequiredLapsePenalty: 0.2,
	}
}

// ValidQuality reports whether q is on the 1..5 scale. Apply and
// ApplyWithPolicy require a valid quality as a precondition; callers
// validate before scheduling so a malformed rating never corrupts the
// interval math silently.
func ValidQuality(q int) bool {
	return q >= QualityAgain && q <= QualityVeryEasy
}

// Apply computes the next scheduling state of a card for one review.
// The card is updated in place on a copy and returned; only ease factor,
// repetition, interval, due date, last quality and history change.
//
// Failure (quality < 3): repetition resets to zero, the interval
// collapses to RetryInterval and the ease factor decays. Success follows
// SM-2: 1 day, then 4 days, then interval*EF with the standard ease
// adjustment.
func Apply(card models.Card, quality int, now time.Time, p Params) models.Card {
	ef := card.EaseFactor
	if ef == 0 {
		ef = models.InitialEaseFactor
	}
	n := card.Repetition
	interval := card.IntervalDays

	if quality < QualityGood {
		n = 0
		interval = RetryInterval
		switch quality {
		case QualityAgain:
			ef = floorEase(ef - p.AgainPenalty)
		case QualityHard:
			ef = floorEase(ef - p.HardPenalty)
		}
	} else {
		switch n {
		case 0:
			interval = 1
		case 1:
			interval = 4
		default:
			q := float64(quality)
			ef = floorEase(ef + (0.1 - (5-q)*(0.08+(5-q)*0.02)))
			interval = math.Round(interval * ef)
		}
		n++
		if quality == QualityVeryEasy && p.EasyBonus > 0 {
			interval *= p.EasyBonus
		}
	}

	card.EaseFactor = ef
	card.Repetition = n
	card.IntervalDays = interval
	card.DueAt = dueAt(now, interval)
	card.LastQuality = quality
	card.History = append(card.History, models.ReviewEvent{
		Quality:      quality,
		IntervalDays: interval,
		EaseFactor:   ef,
		ReviewedAt:   now,
	})
	return card
}

func dueAt(now time.Time, intervalDays float64) time.Time {
	return now.Add(time.Duration(intervalDays * float64(24*time.Hour)))
}

func floorEase(ef float64) float64 {
	if ef < models.MinEaseFactor {
		return models.MinEaseFactor
	}
	return ef
}
