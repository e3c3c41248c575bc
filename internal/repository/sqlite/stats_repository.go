package sqlite

import (
	"context"
	"database/sql"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates the sqlite-backed stats aggregator.
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CardStats(ctx context.Context, profileID int64) (*models.CardStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	var stat models.CardStat
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(DISTINCT c.id) AS total_cards,
    COUNT(rh.id) AS total_reviews,
    COUNT(DISTINCT CASE WHEN c.due_at <= CURRENT_TIMESTAMP THEN c.id END) AS cards_due,
    COUNT(DISTINCT CASE WHEN c.due_at > CURRENT_TIMESTAMP AND c.due_at <= datetime('now', '+7 days') THEN c.id END) AS cards_due_soon,
    COUNT(DISTINCT CASE WHEN c.ease_factor > 2.5 AND c.interval_days > 30 THEN c.id END) AS cards_mastered,
    COUNT(DISTINCT CASE WHEN c.ease_factor < 2.0 AND c.repetition = 0 THEN c.id END) AS cards_struggling,
    CASE
        WHEN COUNT(rh.id) > 0
        THEN ROUND(100.0 * SUM(CASE WHEN rh.quality >= 3 THEN 1 ELSE 0 END) / COUNT(rh.id), 1)
        ELSE 0
    END AS overall_accuracy,
    COALESCE(AVG(DISTINCT c.ease_factor), 0) AS avg_ease_factor,
    COALESCE(AVG(DISTINCT c.interval_days), 0) AS avg_interval_days
FROM cards c
LEFT JOIN review_history rh ON rh.card_id = c.id
WHERE c.profile_id = ?
`, profileID).Scan(
		&stat.TotalCards,
		&stat.TotalReviews,
		&stat.CardsDue,
		&stat.CardsDueSoon,
		&stat.CardsMastered,
		&stat.CardsStruggling,
		&stat.OverallAccuracy,
		&stat.AvgEaseFactor,
		&stat.AvgIntervalDays,
	)
	if err != nil {
		log.Error("failed to get card stats: %v", err)
		return nil, err
	}
	return &stat, nil
}

func (r *statsRepository) SubjectStats(ctx context.Context, profileID int64) ([]models.SubjectStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT
    q.subject,
    COUNT(DISTINCT q.id) AS total_questions,
    COUNT(DISTINCT c.id) AS introduced,
    COUNT(rh.id) AS total_reviews,
    CASE
        WHEN COUNT(rh.id) > 0
        THEN ROUND(100.0 * SUM(CASE WHEN rh.quality >= 3 THEN 1 ELSE 0 END) / COUNT(rh.id), 1)
        ELSE 0
    END AS accuracy,
    COALESCE(AVG(DISTINCT c.ease_factor), 0) AS avg_ease_factor
FROM questions q
LEFT JOIN cards c ON c.question_id = q.number AND c.profile_id = ?
LEFT JOIN review_history rh ON rh.card_id = c.id
GROUP BY q.subject
ORDER BY q.subject
`, profileID)
	if err != nil {
		log.Error("failed to query subject stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.SubjectStat
	for rows.Next() {
		var s models.SubjectStat
		if err := rows.Scan(&s.Subject, &s.TotalQuestions, &s.Introduced, &s.TotalReviews, &s.Accuracy, &s.AvgEaseFactor); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
