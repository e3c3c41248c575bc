package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/session"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates the sqlite-backed queue snapshot store.
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Load(ctx context.Context, profileID int64) (*session.State, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM session_snapshots WHERE profile_id = ?`, profileID).Scan(&stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load session snapshot: %v", err)
		return nil, err
	}

	var state session.State
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		log.Error("failed to decode session snapshot: %v", err)
		return nil, err
	}
	return &state, nil
}

func (r *sessionRepository) Save(ctx context.Context, state *session.State) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO session_snapshots (profile_id, state, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(profile_id) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP
`, state.ProfileID, string(stateJSON))
	if err != nil {
		log.Error("failed to save session snapshot: %v", err)
	}
	return err
}

func (r *sessionRepository) Delete(ctx context.Context, profileID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_snapshots WHERE profile_id = ?`, profileID)
	return err
}
