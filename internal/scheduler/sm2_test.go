package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/scheduler"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestApply_SuccessStreakFromNewCard(t *testing.T) {
	card := models.NewCard(1, "117A12")
	p := scheduler.DefaultParams()

	card = scheduler.Apply(card, scheduler.QualityEasy, testNow, p)
	assert.Equal(t, 1.0, card.IntervalDays, "first success schedules 1 day out")
	assert.Equal(t, 1, card.Repetition)

	card = scheduler.Apply(card, scheduler.QualityEasy, testNow, p)
	assert.Equal(t, 4.0, card.IntervalDays, "second success schedules 4 days out")
	assert.Equal(t, 2, card.Repetition)

	card = scheduler.Apply(card, scheduler.QualityEasy, testNow, p)
	assert.Equal(t, 10.0, card.IntervalDays, "third success grows by the ease factor")
	assert.Equal(t, 3, card.Repetition)
	assert.Equal(t, testNow.Add(10*24*time.Hour), card.DueAt)
}

func TestApply_FailureCollapsesToRetryWindow(t *testing.T) {
	card := models.Card{
		ProfileID:    1,
		QuestionID:   "117A12",
		EaseFactor:   2.5,
		Repetition:   4,
		IntervalDays: 21,
	}

	updated := scheduler.Apply(card, scheduler.QualityAgain, testNow, scheduler.DefaultParams())

	assert.Equal(t, 0, updated.Repetition, "failure resets repetition")
	assert.InDelta(t, scheduler.RetryInterval, updated.IntervalDays, 1e-9)
	assert.InDelta(t, 2.2, updated.EaseFactor, 1e-9, "again decays ease by 0.3")
	assert.WithinDuration(t, testNow.Add(10*time.Minute), updated.DueAt, time.Second)
}

func TestApply_HardDecaysEaseLessThanAgain(t *testing.T) {
	card := models.Card{EaseFactor: 2.5, Repetition: 2, IntervalDays: 7}

	updated := scheduler.Apply(card, scheduler.QualityHard, testNow, scheduler.DefaultParams())

	assert.Equal(t, 0, updated.Repetition)
	assert.InDelta(t, 2.35, updated.EaseFactor, 1e-9)
	assert.InDelta(t, scheduler.RetryInterval, updated.IntervalDays, 1e-9)
}

func TestApply_EaseFactorNeverDropsBelowFloor(t *testing.T) {
	card := models.Card{EaseFactor: 2.5, IntervalDays: 10}
	p := scheduler.DefaultParams()

	for i := 0; i < 20; i++ {
		card = scheduler.Apply(card, scheduler.QualityAgain, testNow, p)
		assert.GreaterOrEqual(t, card.EaseFactor, models.MinEaseFactor)
	}
	assert.Equal(t, models.MinEaseFactor, card.EaseFactor)
}

func TestApply_RepetitionResetsOnAnyFailure(t *testing.T) {
	for _, quality := range []int{scheduler.QualityAgain, scheduler.QualityHard} {
		card := models.Card{EaseFactor: 2.5, Repetition: 7, IntervalDays: 42}
		updated := scheduler.Apply(card, quality, testNow, scheduler.DefaultParams())
		assert.Equal(t, 0, updated.Repetition, "quality %d must reset repetition", quality)
	}
}

func TestApply_IntervalMonotonicOnSuccessStreak(t *testing.T) {
	card := models.NewCard(1, "117A12")
	p := scheduler.DefaultParams()

	prev := 0.0
	for i := 0; i < 12; i++ {
		card = scheduler.Apply(card, scheduler.QualityEasy, testNow, p)
		assert.GreaterOrEqual(t, card.IntervalDays, prev, "interval must not shrink on review %d", i+1)
		prev = card.IntervalDays
	}
}

func TestApply_VeryEasyBonus(t *testing.T) {
	card := models.Card{EaseFactor: 2.5, Repetition: 2, IntervalDays: 4}

	withBonus := scheduler.Apply(card, scheduler.QualityVeryEasy, testNow, scheduler.DefaultParams())

	noBonus := scheduler.DefaultParams()
	noBonus.EasyBonus = 1
	plain := scheduler.Apply(card, scheduler.QualityVeryEasy, testNow, noBonus)

	assert.InDelta(t, plain.IntervalDays*1.3, withBonus.IntervalDays, 1e-9)
}

func TestApply_AppendsHistory(t *testing.T) {
	card := models.NewCard(1, "117A12")
	p := scheduler.DefaultParams()

	card = scheduler.Apply(card, scheduler.QualityGood, testNow, p)
	card = scheduler.Apply(card, scheduler.QualityAgain, testNow.Add(24*time.Hour), p)

	require.Len(t, card.History, 2, "history is append-only, one entry per review")
	assert.Equal(t, scheduler.QualityGood, card.History[0].Quality)
	assert.Equal(t, scheduler.QualityAgain, card.History[1].Quality)
	assert.Equal(t, card.EaseFactor, card.History[1].EaseFactor)
	assert.Equal(t, card.IntervalDays, card.History[1].IntervalDays)
}

func TestApply_DefaultsEaseForZeroValueCard(t *testing.T) {
	updated := scheduler.Apply(models.Card{}, scheduler.QualityGood, testNow, scheduler.DefaultParams())
	assert.Equal(t, models.InitialEaseFactor, updated.EaseFactor)
	assert.Equal(t, 1.0, updated.IntervalDays)
}

func TestValidQuality(t *testing.T) {
	for q := 1; q <= 5; q++ {
		assert.True(t, scheduler.ValidQuality(q))
	}
	assert.False(t, scheduler.ValidQuality(0))
	assert.False(t, scheduler.ValidQuality(6))
	assert.False(t, scheduler.ValidQuality(-1))
}
