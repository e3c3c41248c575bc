package services_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository/sqlite"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/scheduler"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/services"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/testutil"
)

// syncQueue applies persistence jobs inline so tests observe the
// written state immediately.
type syncQueue struct {
	cards     repository.CardRepository
	sessions  repository.SessionRepository
	cardSaves int
	snapshots int
}

func (q *syncQueue) EnqueueCardSave(card models.Card, event models.ReviewEvent) error {
	q.cardSaves++
	saved, err := q.cards.Put(context.Background(), card)
	if err != nil {
		return err
	}
	return q.cards.AppendReview(context.Background(), saved.ID, event)
}

func (q *syncQueue) EnqueueSnapshot(state *session.State) error {
	q.snapshots++
	return q.sessions.Save(context.Background(), state)
}

type SessionServiceSuite struct {
	suite.Suite
	svc       services.SessionService
	cards     repository.CardRepository
	questions repository.QuestionRepository
	sessions  repository.SessionRepository
	profiles  repository.ProfileRepository
	queue     *syncQueue
	profileID int64
	now       time.Time
}

func (s *SessionServiceSuite) SetupTest() {
	database := testutil.NewTestDB(s.T())
	s.cards = sqlite.NewCardRepository(database.DB)
	s.questions = sqlite.NewQuestionRepository(database.DB)
	s.sessions = sqlite.NewSessionRepository(database.DB)
	s.profiles = sqlite.NewProfileRepository(database.DB)

	s.profileID = testutil.SeedProfile(s.T(), database, "testuser")
	testutil.SeedQuestions(s.T(), database,
		models.Question{Number: "117A5", Subject: "解剖学", IsRequired: true, CorrectAnswer: "A"},
		models.Question{Number: "117A30", Subject: "解剖学", CorrectAnswer: "B"},
		models.Question{Number: "117B10", Subject: "歯周病学", CorrectAnswer: "C"},
		models.Question{Number: "117B11", Subject: "歯周病学", CorrectAnswer: "D"},
	)

	s.now = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	s.queue = &syncQueue{cards: s.cards, sessions: s.sessions}
	s.svc = services.NewSessionService(
		s.cards, s.questions, s.sessions, s.profiles, s.queue,
		services.WithClock(func() time.Time { return s.now }),
		services.WithSelectionRand(rand.New(rand.NewSource(42))),
		services.WithManager(session.NewManager(
			session.WithClock(func() time.Time { return s.now }),
			session.WithRand(rand.New(rand.NewSource(42))),
		)),
	)
}

func (s *SessionServiceSuite) TestStartBuildsQueue() {
	summary, err := s.svc.Start(context.Background(), s.profileID, 3)
	s.Require().NoError(err)
	s.Equal(3, summary.NewCards)
	s.Equal(0, summary.DueCards)
	s.Equal(3, summary.Groups)
	s.NotEmpty(summary.SessionID)
	s.Positive(s.queue.snapshots)
}

func (s *SessionServiceSuite) TestStartUnknownProfile() {
	_, err := s.svc.Start(context.Background(), 999, 3)
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *SessionServiceSuite) TestAnswerPersistsCardAndAdvances() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 2)
	s.Require().NoError(err)

	view, err := s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)
	s.Require().False(view.Done)
	questionID := view.Group.QuestionIDs[0]

	result, err := s.svc.Answer(ctx, s.profileID, scheduler.QualityEasy)
	s.Require().NoError(err)
	s.Equal(1, result.UpdatedCards)
	s.False(result.Requeued)
	s.False(result.SaveDeferred)

	card, err := s.cards.Get(ctx, s.profileID, questionID)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Equal(1, card.Repetition)
	s.InDelta(1.0, card.IntervalDays, 1e-9)
	s.Require().Len(card.History, 1)
	s.Equal(scheduler.QualityEasy, card.History[0].Quality)

	profile, err := s.profiles.Get(ctx, s.profileID)
	s.Require().NoError(err)
	s.Require().NotNil(profile.LastStudiedAt)
}

func (s *SessionServiceSuite) TestLowQualityRequeuesGroup() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 2)
	s.Require().NoError(err)

	view, err := s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)
	first := view.Group

	result, err := s.svc.Answer(ctx, s.profileID, scheduler.QualityAgain)
	s.Require().NoError(err)
	s.True(result.Requeued)

	// The struggled group is not ready yet; the other group comes first.
	view, err = s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)
	s.Require().False(view.Done)
	s.NotEqual(first.QuestionIDs, view.Group.QuestionIDs)

	_, err = s.svc.Answer(ctx, s.profileID, scheduler.QualityGood)
	s.Require().NoError(err)

	// After the delay the struggled group comes back.
	s.now = s.now.Add(16 * time.Minute)
	view, err = s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)
	s.Require().False(view.Done)
	s.Equal(first.QuestionIDs, view.Group.QuestionIDs)
}

func (s *SessionServiceSuite) TestAnswerWithoutActiveGroup() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 1)
	s.Require().NoError(err)

	_, err = s.svc.Answer(ctx, s.profileID, scheduler.QualityGood)
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Equal(errors.ErrCodeConflict, appErr.Code)
}

func (s *SessionServiceSuite) TestInvalidQualityRejected() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 1)
	s.Require().NoError(err)
	_, err = s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)

	_, err = s.svc.Answer(ctx, s.profileID, 0)
	s.Require().Error(err)
	_, err = s.svc.Answer(ctx, s.profileID, 6)
	s.Require().Error(err)
}

func (s *SessionServiceSuite) TestSkipMovesGroupToTail() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 2)
	s.Require().NoError(err)

	view, err := s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)
	skipped := view.Group
	skippedID := skipped.QuestionIDs[0]

	view, err = s.svc.Skip(ctx, s.profileID)
	s.Require().NoError(err)
	s.Require().False(view.Done)
	s.NotEqual(skipped.QuestionIDs, view.Group.QuestionIDs)

	// Skipping writes no card state.
	card, err := s.cards.Get(ctx, s.profileID, skippedID)
	s.Require().NoError(err)
	s.Nil(card)
}

func (s *SessionServiceSuite) TestSessionRunsToCompletion() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 4)
	s.Require().NoError(err)

	for i := 0; i < 4; i++ {
		view, err := s.svc.Next(ctx, s.profileID)
		s.Require().NoError(err)
		s.Require().False(view.Done)
		_, err = s.svc.Answer(ctx, s.profileID, scheduler.QualityGood)
		s.Require().NoError(err)
	}

	view, err := s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)
	s.True(view.Done)
}

func (s *SessionServiceSuite) TestResumeFromSnapshot() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 2)
	s.Require().NoError(err)
	view, err := s.svc.Next(ctx, s.profileID)
	s.Require().NoError(err)
	active := view.Group

	// A new service instance over the same storage picks the session up
	// from the snapshot and serves the same active group.
	restarted := services.NewSessionService(
		s.cards, s.questions, s.sessions, s.profiles, s.queue,
		services.WithClock(func() time.Time { return s.now }),
	)
	resumed, err := restarted.Next(ctx, s.profileID)
	s.Require().NoError(err)
	s.Require().False(resumed.Done)
	s.Equal(active.QuestionIDs, resumed.Group.QuestionIDs)
}

func (s *SessionServiceSuite) TestRequiredHardLapseAppliesPenalty() {
	ctx := context.Background()
	_, err := s.svc.Start(ctx, s.profileID, 4)
	s.Require().NoError(err)

	// Walk the queue until the required question is active.
	for {
		view, err := s.svc.Next(ctx, s.profileID)
		s.Require().NoError(err)
		s.Require().False(view.Done)
		if view.Group.QuestionIDs[0] == "117A5" {
			break
		}
		_, err = s.svc.Skip(ctx, s.profileID)
		s.Require().NoError(err)
	}

	_, err = s.svc.Answer(ctx, s.profileID, scheduler.QualityHard)
	s.Require().NoError(err)

	card, err := s.cards.Get(ctx, s.profileID, "117A5")
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.InDelta(2.3, card.EaseFactor, 1e-9)
	s.Equal(0, card.Repetition)
	s.InDelta(scheduler.RetryInterval, card.IntervalDays, 1e-9)
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}

func TestCheckAnswerGradesAlternatives(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewQuestionRepository(database.DB)
	svc := services.NewQuestionService(repo)

	ctx := context.Background()
	_, err := repo.ImportBatch(ctx, []models.Question{
		{Number: "117A5", Subject: "解剖学", CorrectAnswer: "A/D"},
		{Number: "117A6", Subject: "解剖学", CorrectAnswer: "AD"},
		{Number: "117D75", Subject: "歯科理工学", Kind: models.GroupOrdering, CorrectAnswer: "B,A,C"},
	})
	require.NoError(t, err)

	res, err := svc.Check(ctx, "117A5", "D")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = svc.Check(ctx, "117A6", "DA")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = svc.Check(ctx, "117A6", "AB")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	res, err = svc.Check(ctx, "117D75", "B, A, C")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = svc.Check(ctx, "117D75", "A,B,C")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	_, err = svc.Check(ctx, "999Z9", "A")
	require.Error(t, err)
}
