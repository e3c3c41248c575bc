// Package selection picks which not-yet-studied questions enter a
// session as new cards, balancing subject coverage against the bank.
package selection

import (
	"math/rand"
	"sort"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
)

const (
	// recencyPenalty discourages introducing a question whose subject
	// was just answered, to avoid back-to-back same-subject cramming.
	recencyPenalty = 0.15
	// randomSpread is the width of the uniform jitter added to every
	// candidate score so repeated sessions over identical state vary.
	randomSpread = 0.5
	// poolFactor widens the ranked cut before the final shuffle so the
	// top-scored question is not picked deterministically every time.
	poolFactor = 5
)

// Engine selects new cards with injectable randomness so selections are
// reproducible under a fixed seed.
type Engine struct {
	rng *rand.Rand
}

func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

type candidate struct {
	questionID string
	score      float64
}

// PickNew returns up to n question numbers that have never been
// reviewed, ranked by subject balance, penalized for recently seen
// subjects and jittered for variety. The result contains no duplicates
// and no question with existing review state; when fewer than n
// unreviewed questions remain, all of them are returned.
func (e *Engine) PickNew(questions []models.Question, cards map[string]models.Card, n int, recentIDs []string) []string {
	if n <= 0 || len(questions) == 0 {
		return nil
	}

	subjectOf := make(map[string]string, len(questions))
	perSubject := make(map[string]int)
	for _, q := range questions {
		if q.Number == "" {
			continue
		}
		subjectOf[q.Number] = q.Subject
		perSubject[q.Subject]++
	}
	if len(perSubject) == 0 {
		return nil
	}

	introduced := make(map[string]int)
	for id, card := range cards {
		if subj, ok := subjectOf[id]; ok && card.Reviewed() {
			introduced[subj]++
		}
	}

	recentSubjects := make(map[string]bool, len(recentIDs))
	for _, id := range recentIDs {
		if subj, ok := subjectOf[id]; ok {
			recentSubjects[subj] = true
		}
	}

	// Uniform target share per subject.
	target := 1.0 / float64(len(perSubject))

	seen := make(map[string]bool, len(questions))
	var candidates []candidate
	for _, q := range questions {
		if q.Number == "" || seen[q.Number] {
			continue
		}
		seen[q.Number] = true

		if card, ok := cards[q.Number]; ok && card.Reviewed() {
			continue
		}

		total := perSubject[q.Subject]
		if total == 0 {
			continue
		}
		currentRatio := float64(introduced[q.Subject]) / float64(total)
		score := target - currentRatio
		if score < 0 {
			score = 0
		}
		if recentSubjects[q.Subject] {
			score -= recencyPenalty
		}
		score += e.rng.Float64() * randomSpread

		candidates = append(candidates, candidate{questionID: q.Number, score: score})
	}

	// Shuffle before the stable sort so equal scores do not keep bank order.
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	poolSize := n * poolFactor
	if poolSize > len(candidates) {
		poolSize = len(candidates)
	}
	pool := candidates[:poolSize]
	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if n > len(pool) {
		n = len(pool)
	}
	selected := make([]string, 0, n)
	for _, c := range pool[:n] {
		selected = append(selected, c.questionID)
	}
	e.rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

// ShuffleGroups randomizes group order in place with the engine's rng.
func (e *Engine) ShuffleGroups(groups []models.QuestionGroup) {
	e.rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})
}
