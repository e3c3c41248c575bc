// Package session holds the in-session queue state machine: a FIFO main
// queue of unseen question groups, a short-term re-review queue with
// minute-scale ready times, and the currently active group.
package session

import (
	"math/rand"
	"time"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/scheduler"
)

// Status is the coarse state of a study session.
type Status string

const (
	// StatusIdle means no group is active; queues may still hold work.
	StatusIdle Status = "idle"
	// StatusActive means a group is presented and awaiting evaluation.
	StatusActive Status = "active"
	// StatusDone means both queues and the active slot are empty.
	StatusDone Status = "done"
)

// ReviewEntry is a group waiting in the short-term review queue. It
// becomes eligible once the clock passes ReadyAt; eligibility is
// evaluated lazily on the next pull, never by a timer.
type ReviewEntry struct {
	Group   models.QuestionGroup `json:"group"`
	ReadyAt time.Time            `json:"ready_at"`
}

// State is the full queue state for one profile's session. A group
// appears in at most one of MainQueue, ShortTermReview and Current.
type State struct {
	ID              string                 `json:"id"`
	ProfileID       int64                  `json:"profile_id"`
	MainQueue       []models.QuestionGroup `json:"main_queue"`
	ShortTermReview []ReviewEntry          `json:"short_term_review"`
	Current         models.QuestionGroup   `json:"current"`
	StartedAt       time.Time              `json:"started_at"`
}

// Status derives the session status from the queue contents.
func (s *State) Status() Status {
	if !s.Current.Empty() {
		return StatusActive
	}
	if len(s.MainQueue) == 0 && len(s.ShortTermReview) == 0 {
		return StatusDone
	}
	return StatusIdle
}

// Clone returns a deep copy safe to hand to another goroutine while
// the session keeps mutating.
func (s *State) Clone() *State {
	c := *s
	c.MainQueue = append([]models.QuestionGroup(nil), s.MainQueue...)
	c.ShortTermReview = append([]ReviewEntry(nil), s.ShortTermReview...)
	return &c
}

// Remaining counts groups still queued, the active group included.
func (s *State) Remaining() int {
	n := len(s.MainQueue) + len(s.ShortTermReview)
	if !s.Current.Empty() {
		n++
	}
	return n
}

// Manager decides which group a session serves next, mixing due
// short-term reviews with fresh material. Clock and randomness are
// injected so the mixing policy is testable.
type Manager struct {
	clock            func() time.Time
	rng              *rand.Rand
	reviewChance     float64
	backlogThreshold int
	reviewDelay      time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithRand overrides the randomness used for the review/new mix.
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// WithReviewDelay overrides how long a struggled group waits before
// re-review.
func WithReviewDelay(d time.Duration) Option {
	return func(m *Manager) { m.reviewDelay = d }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clock:            time.Now,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
		reviewChance:     0.3,
		backlogThreshold: 5,
		reviewDelay:      15 * time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Next pulls the next group into s.Current and returns it. Selection
// policy, in order:
//
//  1. five or more ready reviews: serve the oldest ready review
//  2. both ready reviews and main-queue groups: serve a review with
//     probability 0.3, otherwise the next main-queue group FIFO
//  3. only one side available: serve it
//  4. nothing available: the session is done, ok is false
//
// Calling Next while a group is already active returns that group
// unchanged so a retried pull cannot duplicate state.
func (m *Manager) Next(s *State) (models.QuestionGroup, bool) {
	if !s.Current.Empty() {
		return s.Current, true
	}

	now := m.clock()
	readyIdx := make([]int, 0, len(s.ShortTermReview))
	for i, entry := range s.ShortTermReview {
		if !entry.ReadyAt.After(now) {
			readyIdx = append(readyIdx, i)
		}
	}

	takeReview := func() models.QuestionGroup {
		// Entries are appended in order, so the first ready index is
		// the oldest.
		i := readyIdx[0]
		group := s.ShortTermReview[i].Group
		s.ShortTermReview = append(s.ShortTermReview[:i], s.ShortTermReview[i+1:]...)
		return group
	}
	takeMain := func() models.QuestionGroup {
		group := s.MainQueue[0]
		s.MainQueue = s.MainQueue[1:]
		return group
	}

	switch {
	case len(readyIdx) >= m.backlogThreshold:
		s.Current = takeReview()
	case len(readyIdx) > 0 && len(s.MainQueue) > 0:
		if m.rng.Float64() < m.reviewChance {
			s.Current = takeReview()
		} else {
			s.Current = takeMain()
		}
	case len(readyIdx) > 0:
		s.Current = takeReview()
	case len(s.MainQueue) > 0:
		s.Current = takeMain()
	default:
		return models.QuestionGroup{}, false
	}
	return s.Current, true
}

// Complete clears the active group after its evaluation. A quality
// below "good" sends the group to the short-term review queue, ready
// after the configured delay. The card updates themselves belong to the
// caller; Complete only moves the group.
func (m *Manager) Complete(s *State, quality int) {
	if s.Current.Empty() {
		return
	}
	group := s.Current
	s.Current = models.QuestionGroup{}
	if quality < scheduler.QualityGood {
		s.ShortTermReview = append(s.ShortTermReview, ReviewEntry{
			Group:   group,
			ReadyAt: m.clock().Add(m.reviewDelay),
		})
	}
}

// Skip returns the active group to the tail of the main queue without
// touching any card state. Skipping is not a review.
func (m *Manager) Skip(s *State) {
	if s.Current.Empty() {
		return
	}
	s.MainQueue = append(s.MainQueue, s.Current)
	s.Current = models.QuestionGroup{}
}
