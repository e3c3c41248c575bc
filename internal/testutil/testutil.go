package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/db"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
)

// NewTestDB opens an in-memory sqlite database with all migrations
// applied and closes it when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// SeedProfile inserts a profile and returns its id.
func SeedProfile(t *testing.T, database *db.DB, name string) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(),
		`INSERT INTO profiles (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedQuestions inserts bank questions.
func SeedQuestions(t *testing.T, database *db.DB, questions ...models.Question) {
	t.Helper()

	for _, q := range questions {
		kind := q.Kind
		if kind == "" {
			kind = models.GroupSingle
		}
		_, err := database.ExecContext(context.Background(), `
INSERT INTO questions (number, subject, is_required, case_id, kind, text, choices, correct_answer)
VALUES (?, ?, ?, ?, ?, ?, '[]', ?)
`, q.Number, q.Subject, q.IsRequired, q.CaseID, string(kind), q.Text, q.CorrectAnswer)
		require.NoError(t, err)
	}
}
