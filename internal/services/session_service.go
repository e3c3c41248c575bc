package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/jobs"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/questionbank"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/scheduler"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/selection"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
)

// SessionSummary describes a freshly built study queue.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Groups    int    `json:"groups"`
	NewCards  int    `json:"new_cards"`
	DueCards  int    `json:"due_cards"`
}

// GroupView is the next group with enough question detail to render.
type GroupView struct {
	Done      bool                 `json:"done"`
	Group     models.QuestionGroup `json:"group,omitempty"`
	Questions []models.Question    `json:"questions,omitempty"`
	Remaining int                  `json:"remaining"`
}

// AnswerResult reports what a submitted evaluation did.
type AnswerResult struct {
	UpdatedCards int  `json:"updated_cards"`
	Requeued     bool `json:"requeued"`
	SaveDeferred bool `json:"save_deferred"`
}

// SessionService drives study sessions: building the day's queue,
// serving groups and applying evaluations to cards.
type SessionService interface {
	Start(ctx context.Context, profileID int64, newCardsPerDay int) (*SessionSummary, error)
	Next(ctx context.Context, profileID int64) (*GroupView, error)
	Answer(ctx context.Context, profileID int64, quality int) (*AnswerResult, error)
	Skip(ctx context.Context, profileID int64) (*GroupView, error)
}

type sessionService struct {
	cards     repository.CardRepository
	questions repository.QuestionRepository
	snapshots repository.SessionRepository
	profiles  repository.ProfileRepository
	queue     jobs.JobQueue
	manager   *session.Manager
	engine    *selection.Engine
	params    scheduler.Params
	clock     func() time.Time

	mu     sync.Mutex
	states map[int64]*session.State
	recent map[int64][]string
}

// SessionOption tweaks the service wiring.
type SessionOption func(*sessionService)

// WithClock overrides the time source for deterministic tests.
func WithClock(clock func() time.Time) SessionOption {
	return func(s *sessionService) { s.clock = clock }
}

// WithManager overrides the queue manager.
func WithManager(m *session.Manager) SessionOption {
	return func(s *sessionService) { s.manager = m }
}

// WithSelectionRand seeds the selection engine.
func WithSelectionRand(rng *rand.Rand) SessionOption {
	return func(s *sessionService) { s.engine = selection.NewEngine(rng) }
}

// NewSessionService wires the session state machine to storage.
func NewSessionService(
	cards repository.CardRepository,
	questions repository.QuestionRepository,
	snapshots repository.SessionRepository,
	profiles repository.ProfileRepository,
	queue jobs.JobQueue,
	opts ...SessionOption,
) SessionService {
	s := &sessionService{
		cards:     cards,
		questions: questions,
		snapshots: snapshots,
		profiles:  profiles,
		queue:     queue,
		manager:   session.NewManager(),
		engine:    selection.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano()))),
		params:    scheduler.DefaultParams(),
		clock:     time.Now,
		states:    make(map[int64]*session.State),
		recent:    make(map[int64][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recentWindow caps how many recently answered questions feed the
// selection engine's subject penalty.
const recentWindow = 10

func (s *sessionService) Start(ctx context.Context, profileID int64, newCardsPerDay int) (*SessionSummary, error) {
	log := logger.FromContext(ctx)

	if newCardsPerDay <= 0 {
		newCardsPerDay = 10
	}

	profile, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", profileID)
	}

	allQuestions, err := s.questions.List(ctx, models.QuestionFilter{})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if len(allQuestions) == 0 {
		return nil, errors.NewValidationError("question bank", "no questions imported")
	}

	cardMap, err := s.cards.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	now := s.clock()
	dueIDs, err := s.cards.DueQuestionIDs(ctx, profileID, now)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	newIDs := s.engine.PickNew(allQuestions, cardMap, newCardsPerDay, s.recentFor(profileID))
	log.Debug("session build: %d due, %d new", len(dueIDs), len(newIDs))

	state := &session.State{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		MainQueue: s.buildGroups(allQuestions, append(append([]string{}, dueIDs...), newIDs...)),
		StartedAt: now,
	}

	s.mu.Lock()
	s.states[profileID] = state
	s.mu.Unlock()

	s.snapshot(ctx, state)

	return &SessionSummary{
		SessionID: state.ID,
		Groups:    len(state.MainQueue),
		NewCards:  len(newIDs),
		DueCards:  len(dueIDs),
	}, nil
}

// buildGroups keeps case-linked questions together and shuffles group
// order so due and new material interleave.
func (s *sessionService) buildGroups(allQuestions []models.Question, ids []string) []models.QuestionGroup {
	byNumber := make(map[string]models.Question, len(allQuestions))
	for _, q := range allQuestions {
		byNumber[q.Number] = q
	}

	picked := make([]models.Question, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if q, ok := byNumber[id]; ok {
			picked = append(picked, q)
		} else {
			picked = append(picked, models.Question{Number: id, Kind: models.GroupSingle})
		}
	}

	groups := questionbank.BuildGroups(picked)
	s.engine.ShuffleGroups(groups)
	return groups
}

func (s *sessionService) state(profileID int64) (*session.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[profileID]
	return state, ok
}

// loadState returns the live state, falling back to a persisted
// snapshot from a previous process.
func (s *sessionService) loadState(ctx context.Context, profileID int64) (*session.State, error) {
	if state, ok := s.state(profileID); ok {
		return state, nil
	}

	snapshot, err := s.snapshots.Load(ctx, profileID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load session snapshot: %v", err)
	}
	if snapshot == nil {
		return nil, errors.NewNotFoundError("session", profileID)
	}

	s.mu.Lock()
	s.states[profileID] = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

func (s *sessionService) Next(ctx context.Context, profileID int64) (*GroupView, error) {
	state, err := s.loadState(ctx, profileID)
	if err != nil {
		return nil, err
	}

	group, ok := s.manager.Next(state)
	if !ok {
		s.snapshot(ctx, state)
		return &GroupView{Done: true}, nil
	}

	questions, err := s.questionsFor(ctx, group)
	if err != nil {
		return nil, err
	}

	s.snapshot(ctx, state)
	return &GroupView{Group: group, Questions: questions, Remaining: state.Remaining()}, nil
}

func (s *sessionService) questionsFor(ctx context.Context, group models.QuestionGroup) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(group.QuestionIDs))
	for _, id := range group.QuestionIDs {
		q, err := s.questions.GetByNumber(ctx, id)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if q == nil {
			// A queued id that left the bank still gets served; the
			// scheduler only needs the id.
			questions = append(questions, models.Question{Number: id, Kind: models.GroupSingle})
			continue
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

func (s *sessionService) Answer(ctx context.Context, profileID int64, quality int) (*AnswerResult, error) {
	log := logger.FromContext(ctx)

	if !scheduler.ValidQuality(quality) {
		return nil, errors.NewValidationError("quality", "must be between 1 and 5")
	}

	state, err := s.loadState(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if state.Current.Empty() {
		return nil, errors.NewConflictError("no active group to evaluate")
	}

	now := s.clock()
	result := &AnswerResult{}
	for _, questionID := range state.Current.QuestionIDs {
		deferred, err := s.reviewQuestion(ctx, profileID, questionID, quality, now)
		if err != nil {
			return nil, err
		}
		if deferred {
			result.SaveDeferred = true
		}
		result.UpdatedCards++
		s.noteRecent(profileID, questionID)
	}

	result.Requeued = quality < scheduler.QualityGood
	s.manager.Complete(state, quality)
	s.snapshot(ctx, state)

	if err := s.profiles.UpdateLastStudied(ctx, profileID, now); err != nil {
		log.Warn("failed to update last studied time: %v", err)
	}
	return result, nil
}

// reviewQuestion applies the lapse policy and SM-2 to one card and
// persists it. A storage failure does not fail the review: the computed
// state is replayed by the job queue and the session moves on.
func (s *sessionService) reviewQuestion(ctx context.Context, profileID int64, questionID string, quality int, now time.Time) (deferred bool, err error) {
	log := logger.FromContext(ctx)

	card, err := s.cards.Get(ctx, profileID, questionID)
	if err != nil {
		log.Warn("card read failed for %s, starting from defaults: %v", questionID, err)
	}
	if card == nil {
		fresh := models.NewCard(profileID, questionID)
		card = &fresh
	}

	required := false
	if q, qerr := s.questions.GetByNumber(ctx, questionID); qerr == nil && q != nil {
		required = q.IsRequired
	} else {
		// Fall back to number classification when the bank row is
		// unavailable.
		required = questionbank.IsRequired(questionID)
	}

	updated := scheduler.ApplyWithPolicy(*card, quality, required, now, s.params)
	event := updated.History[len(updated.History)-1]

	saved, err := s.cards.Put(ctx, updated)
	if err == nil {
		err = s.cards.AppendReview(ctx, saved.ID, event)
	}
	if err != nil {
		log.Warn("card save failed for %s, deferring to background retry: %v", questionID, err)
		if qerr := s.queue.EnqueueCardSave(updated, event); qerr != nil {
			log.Error("could not defer card save for %s: %v", questionID, qerr)
		}
		return true, nil
	}
	return false, nil
}

func (s *sessionService) Skip(ctx context.Context, profileID int64) (*GroupView, error) {
	state, err := s.loadState(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if state.Current.Empty() {
		return nil, errors.NewConflictError("no active group to skip")
	}

	s.manager.Skip(state)
	return s.Next(ctx, profileID)
}

func (s *sessionService) snapshot(ctx context.Context, state *session.State) {
	if err := s.queue.EnqueueSnapshot(state.Clone()); err != nil {
		logger.FromContext(ctx).Warn("session snapshot not queued: %v", err)
	}
}

func (s *sessionService) noteRecent(profileID int64, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := append(s.recent[profileID], questionID)
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	s.recent[profileID] = recent
}

func (s *sessionService) recentFor(profileID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.recent[profileID]...)
}
