package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-prep-api/internal/models"
)

// AttemptRepository stores scored mock-test attempts.
type AttemptRepository struct {
	db *sqlx.DB
}

// NewAttemptRepository creates an attempt repository.
func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// CreateAttempt inserts the attempt and fills in the generated id.
func (r *AttemptRepository) CreateAttempt(ctx context.Context, attempt *models.Attempt) error {
	const query = `INSERT INTO attempts (paper_id, user_id, answers, correct, incorrect, unanswered, total, score, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	row := r.db.QueryRowxContext(ctx, query, attempt.PaperID, attempt.UserID, attempt.Answers, attempt.Correct,
		attempt.Incorrect, attempt.Unanswered, attempt.Total, attempt.Score, attempt.SubmittedAt)
	if err := row.Scan(&attempt.ID); err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

// ListAttemptsByUser returns a user's attempts, oldest first.
func (r *AttemptRepository) ListAttemptsByUser(ctx context.Context, userID int64) ([]models.Attempt, error) {
	const query = `SELECT id, paper_id, user_id, answers, correct, incorrect, unanswered, total, score, submitted_at
FROM attempts WHERE user_id = $1 ORDER BY id ASC`
	attempts := make([]models.Attempt, 0)
	if err := r.db.SelectContext(ctx, &attempts, query, userID); err != nil {
		return nil, fmt.Errorf("list attempts by user: %w", err)
	}
	return attempts, nil
}
