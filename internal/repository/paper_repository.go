package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-prep-api/internal/models"
)

// PaperRepository persists papers and their ordered question links.
type PaperRepository struct {
	db *sqlx.DB
}

// NewPaperRepository creates a paper repository.
func NewPaperRepository(db *sqlx.DB) *PaperRepository {
	return &PaperRepository{db: db}
}

// CreatePaper inserts the paper and its links in one transaction.
func (r *PaperRepository) CreatePaper(ctx context.Context, paper *models.Paper, questionIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create paper tx: %w", err)
	}

	const insertPaper = `INSERT INTO papers (title, description, user_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := tx.QueryRowxContext(ctx, insertPaper, paper.Title, paper.Description, paper.UserID, paper.CreatedAt).Scan(&paper.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert paper: %w", err)
	}

	const insertLink = `INSERT INTO paper_questions (paper_id, question_id, order_index) VALUES ($1, $2, $3)`
	for i, qid := range questionIDs {
		if _, err := tx.ExecContext(ctx, insertLink, paper.ID, qid, i); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert paper question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create paper tx: %w", err)
	}
	return nil
}

// FindPaperByID returns the paper row or ErrNotFound.
func (r *PaperRepository) FindPaperByID(ctx context.Context, id int64) (*models.Paper, error) {
	const query = `SELECT id, title, description, user_id, created_at FROM papers WHERE id = $1 LIMIT 1`
	var paper models.Paper
	if err := r.db.GetContext(ctx, &paper, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find paper by id: %w", err)
	}
	return &paper, nil
}

// ListPapersByUser returns the user's papers in creation order.
func (r *PaperRepository) ListPapersByUser(ctx context.Context, userID int64) ([]models.Paper, error) {
	const query = `SELECT id, title, description, user_id, created_at FROM papers WHERE user_id = $1 ORDER BY id ASC`
	papers := make([]models.Paper, 0)
	if err := r.db.SelectContext(ctx, &papers, query, userID); err != nil {
		return nil, fmt.Errorf("list papers by user: %w", err)
	}
	return papers, nil
}

// ListPaperQuestions returns the links of a paper ordered by position.
func (r *PaperRepository) ListPaperQuestions(ctx context.Context, paperID int64) ([]models.PaperQuestion, error) {
	const query = `SELECT id, paper_id, question_id, order_index FROM paper_questions WHERE paper_id = $1 ORDER BY order_index ASC`
	links := make([]models.PaperQuestion, 0)
	if err := r.db.SelectContext(ctx, &links, query, paperID); err != nil {
		return nil, fmt.Errorf("list paper questions: %w", err)
	}
	return links, nil
}
