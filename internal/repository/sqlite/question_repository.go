package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/logger"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates the sqlite-backed question bank.
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

const questionColumns = "id, number, subject, is_required, case_id, kind, text, choices, correct_answer, created_at"

func scanQuestion(row interface{ Scan(...any) error }) (models.Question, error) {
	var q models.Question
	var choicesJSON string
	err := row.Scan(&q.ID, &q.Number, &q.Subject, &q.IsRequired, &q.CaseID, &q.Kind, &q.Text, &choicesJSON, &q.CorrectAnswer, &q.CreatedAt)
	if err != nil {
		return q, err
	}
	if choicesJSON != "" {
		if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
			return q, err
		}
	}
	return q, nil
}

func (r *questionRepository) GetByNumber(ctx context.Context, number string) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	q, err := scanQuestion(r.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE number = ?`, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get question %s: %v", number, err)
		return nil, err
	}
	return &q, nil
}

func applyFilter(builder squirrel.SelectBuilder, filter models.QuestionFilter) squirrel.SelectBuilder {
	if filter.Subject != "" {
		builder = builder.Where(squirrel.Eq{"subject": filter.Subject})
	}
	if filter.RequiredOnly {
		builder = builder.Where(squirrel.Eq{"is_required": true})
	}
	if filter.NumberPrefix != "" {
		builder = builder.Where(squirrel.Like{"number": filter.NumberPrefix + "%"})
	}
	return builder
}

func (r *questionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	builder := applyFilter(sqlBuilder.Select(questionColumns).From("questions"), filter).OrderBy("number")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *questionRepository) Count(ctx context.Context, filter models.QuestionFilter) (int, error) {
	query, args, err := applyFilter(sqlBuilder.Select("COUNT(*)").From("questions"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *questionRepository) ImportBatch(ctx context.Context, questions []models.Question) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO questions (number, subject, is_required, case_id, kind, text, choices, correct_answer)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(number) DO UPDATE SET
    subject = excluded.subject,
    is_required = excluded.is_required,
    case_id = excluded.case_id,
    kind = excluded.kind,
    text = excluded.text,
    choices = excluded.choices,
    correct_answer = excluded.correct_answer
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	imported := 0
	for _, q := range questions {
		choices := q.Choices
		if choices == nil {
			choices = []string{}
		}
		choicesJSON, err := json.Marshal(choices)
		if err != nil {
			return imported, err
		}
		if _, err := stmt.ExecContext(ctx, q.Number, q.Subject, q.IsRequired, q.CaseID, string(q.Kind), q.Text, string(choicesJSON), q.CorrectAnswer); err != nil {
			log.Error("failed to import question %s: %v", q.Number, err)
			return imported, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Info("imported %d questions", imported)
	return imported, nil
}
