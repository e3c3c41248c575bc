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

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates the sqlite-backed profile store.
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func scanProfile(row interface{ Scan(...any) error }) (models.Profile, error) {
	var p models.Profile
	var lastStudied sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &p.NewCardsPerDay, &lastStudied, &p.CreatedAt)
	if lastStudied.Valid {
		p.LastStudiedAt = &lastStudied.Time
	}
	return p, err
}

func (r *profileRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT id, name, new_cards_per_day, last_studied_at, created_at FROM profiles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, new_cards_per_day, last_studied_at, created_at FROM profiles ORDER BY name`)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Upsert(ctx context.Context, name string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		log.Error("failed to upsert profile: %v", err)
		return nil, err
	}

	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT id, name, new_cards_per_day, last_studied_at, created_at FROM profiles WHERE name = ?`, name))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) UpdateLastStudied(ctx context.Context, id int64, t time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET last_studied_at = ? WHERE id = ?`, t, id)
	return err
}

func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Info("deleting profile: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete profile: %v", err)
	}
	return err
}
