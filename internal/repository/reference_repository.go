package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-prep-api/internal/models"
)

// ReferenceRepository serves the read-only lookup tables.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository creates a reference data repository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListSubjects returns every subject.
func (r *ReferenceRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0)
	if err := r.db.SelectContext(ctx, &subjects, `SELECT id, name, description FROM subjects ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// ListChapters returns chapters, narrowed to subjectID when non-zero.
func (r *ReferenceRepository) ListChapters(ctx context.Context, subjectID int64) ([]models.Chapter, error) {
	query := `SELECT id, name, number, subject_id, description FROM chapters`
	var args []interface{}
	if subjectID != 0 {
		query += ` WHERE subject_id = $1`
		args = append(args, subjectID)
	}
	chapters := make([]models.Chapter, 0)
	if err := r.db.SelectContext(ctx, &chapters, query+` ORDER BY id ASC`, args...); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

// ListTopics returns topics, narrowed to chapterID when non-zero.
func (r *ReferenceRepository) ListTopics(ctx context.Context, chapterID int64) ([]models.Topic, error) {
	query := `SELECT id, name, chapter_id, description FROM topics`
	var args []interface{}
	if chapterID != 0 {
		query += ` WHERE chapter_id = $1`
		args = append(args, chapterID)
	}
	topics := make([]models.Topic, 0)
	if err := r.db.SelectContext(ctx, &topics, query+` ORDER BY id ASC`, args...); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// ListQuestionTypes returns every question type.
func (r *ReferenceRepository) ListQuestionTypes(ctx context.Context) ([]models.QuestionType, error) {
	types := make([]models.QuestionType, 0)
	if err := r.db.SelectContext(ctx, &types, `SELECT id, name, description FROM question_types ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list question types: %w", err)
	}
	return types, nil
}

// ListDifficultyLevels returns every difficulty level.
func (r *ReferenceRepository) ListDifficultyLevels(ctx context.Context) ([]models.DifficultyLevel, error) {
	levels := make([]models.DifficultyLevel, 0)
	if err := r.db.SelectContext(ctx, &levels, `SELECT id, name, description FROM difficulty_levels ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list difficulty levels: %w", err)
	}
	return levels, nil
}
