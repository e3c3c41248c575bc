package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository/sqlite"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	stats     repository.StatsRepository
	cards     repository.CardRepository
	profileID int64
}

func (s *StatsRepositorySuite) SetupTest() {
	database := testutil.NewTestDB(s.T())
	s.stats = sqlite.NewStatsRepository(database.DB)
	s.cards = sqlite.NewCardRepository(database.DB)
	s.profileID = testutil.SeedProfile(s.T(), database, "testuser")
	testutil.SeedQuestions(s.T(), database,
		models.Question{Number: "117A5", Subject: "解剖学"},
		models.Question{Number: "117A6", Subject: "解剖学"},
		models.Question{Number: "117B10", Subject: "歯周病学"},
	)
}

func (s *StatsRepositorySuite) TestCardStatsEmptyProfile() {
	stat, err := s.stats.CardStats(context.Background(), s.profileID)
	s.Require().NoError(err)
	s.Require().NotNil(stat)
	s.Equal(0, stat.TotalCards)
	s.Equal(0, stat.TotalReviews)
}

func (s *StatsRepositorySuite) TestCardStatsCountsReviews() {
	ctx := context.Background()

	card := models.NewCard(s.profileID, "117A5")
	card.DueAt = time.Now().Add(-time.Hour)
	saved, err := s.cards.Put(ctx, card)
	s.Require().NoError(err)

	for _, q := range []int{4, 4, 1} {
		err = s.cards.AppendReview(ctx, saved.ID, models.ReviewEvent{
			Quality: q, IntervalDays: 1, EaseFactor: 2.5, ReviewedAt: time.Now(),
		})
		s.Require().NoError(err)
	}

	stat, err := s.stats.CardStats(ctx, s.profileID)
	s.Require().NoError(err)
	s.Equal(1, stat.TotalCards)
	s.Equal(3, stat.TotalReviews)
	s.Equal(1, stat.CardsDue)
	s.InDelta(66.7, stat.OverallAccuracy, 0.1)
}

func (s *StatsRepositorySuite) TestSubjectStatsCoverEveryBankSubject() {
	ctx := context.Background()

	saved, err := s.cards.Put(ctx, models.NewCard(s.profileID, "117A5"))
	s.Require().NoError(err)
	err = s.cards.AppendReview(ctx, saved.ID, models.ReviewEvent{
		Quality: 4, IntervalDays: 1, EaseFactor: 2.5, ReviewedAt: time.Now(),
	})
	s.Require().NoError(err)

	stats, err := s.stats.SubjectStats(ctx, s.profileID)
	s.Require().NoError(err)
	s.Require().Len(stats, 2)

	bySubject := make(map[string]models.SubjectStat, len(stats))
	for _, st := range stats {
		bySubject[st.Subject] = st
	}

	anat := bySubject["解剖学"]
	s.Equal(2, anat.TotalQuestions)
	s.Equal(1, anat.Introduced)
	s.Equal(1, anat.TotalReviews)
	s.InDelta(100.0, anat.Accuracy, 0.1)

	perio := bySubject["歯周病学"]
	s.Equal(1, perio.TotalQuestions)
	s.Equal(0, perio.Introduced)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
