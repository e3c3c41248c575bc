package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates the sqlite-backed card store.
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, profileID int64, questionID string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	var c models.Card
	var dueAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, profile_id, question_id, repetition, ease_factor, interval_days, due_at, last_quality, created_at
FROM cards
WHERE profile_id = ? AND question_id = ?
`, profileID, questionID).Scan(&c.ID, &c.ProfileID, &c.QuestionID, &c.Repetition, &c.EaseFactor, &c.IntervalDays, &dueAt, &c.LastQuality, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	if dueAt.Valid {
		c.DueAt = dueAt.Time
	}

	history, err := r.history(ctx, c.ID)
	if err != nil {
		log.Error("failed to load card history: %v", err)
		return nil, err
	}
	c.History = history
	c.ReviewCount = len(history)
	return &c, nil
}

func (r *cardRepository) history(ctx context.Context, cardID int64) ([]models.ReviewEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, card_id, quality, interval_days, ease_factor, reviewed_at
FROM review_history
WHERE card_id = ?
ORDER BY id
`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ReviewEvent
	for rows.Next() {
		var e models.ReviewEvent
		if err := rows.Scan(&e.ID, &e.CardID, &e.Quality, &e.IntervalDays, &e.EaseFactor, &e.ReviewedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *cardRepository) Put(ctx context.Context, c models.Card) (models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("saving card: profile_id=%d, question_id=%s, interval=%.4f, ease=%.2f",
		c.ProfileID, c.QuestionID, c.IntervalDays, c.EaseFactor)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO cards (profile_id, question_id, repetition, ease_factor, interval_days, due_at, last_quality)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile_id, question_id) DO UPDATE SET
    repetition = excluded.repetition,
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    due_at = excluded.due_at,
    last_quality = excluded.last_quality
`, c.ProfileID, c.QuestionID, c.Repetition, c.EaseFactor, c.IntervalDays, c.DueAt, c.LastQuality)
	if err != nil {
		log.Error("failed to save card: %v", err)
		return c, err
	}

	if c.ID == 0 {
		// LastInsertId is stale when the upsert takes the update branch,
		// so the id must always be read back by key.
		err = r.db.QueryRowContext(ctx, `SELECT id FROM cards WHERE profile_id = ? AND question_id = ?`,
			c.ProfileID, c.QuestionID).Scan(&c.ID)
		if err != nil {
			log.Error("failed to resolve card id: %v", err)
			return c, err
		}
	}
	return c, nil
}

func (r *cardRepository) AppendReview(ctx context.Context, cardID int64, e models.ReviewEvent) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (card_id, quality, interval_days, ease_factor, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, cardID, e.Quality, e.IntervalDays, e.EaseFactor, e.ReviewedAt)
	if err != nil {
		log.Error("failed to append review history: %v", err)
	}
	return err
}

func (r *cardRepository) ListByProfile(ctx context.Context, profileID int64) (map[string]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.profile_id, c.question_id, c.repetition, c.ease_factor, c.interval_days, c.due_at, c.last_quality, c.created_at,
       COUNT(rh.id) AS reviews
FROM cards c
LEFT JOIN review_history rh ON rh.card_id = c.id
WHERE c.profile_id = ?
GROUP BY c.id
`, profileID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := make(map[string]models.Card)
	for rows.Next() {
		var c models.Card
		var dueAt sql.NullTime
		var reviews int
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.QuestionID, &c.Repetition, &c.EaseFactor, &c.IntervalDays, &dueAt, &c.LastQuality, &c.CreatedAt, &reviews); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		if dueAt.Valid {
			c.DueAt = dueAt.Time
		}
		c.ReviewCount = reviews
		cards[c.QuestionID] = c
	}
	log.Debug("loaded %d cards for profile %d", len(cards), profileID)
	return cards, rows.Err()
}

func (r *cardRepository) DueQuestionIDs(ctx context.Context, profileID int64, now time.Time) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT question_id
FROM cards
WHERE profile_id = ? AND due_at IS NOT NULL AND due_at <= ?
ORDER BY due_at
`, profileID, now)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("found %d due cards for profile %d", len(ids), profileID)
	return ids, rows.Err()
}
