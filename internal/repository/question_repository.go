package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/models"
)

const questionColumns = `id, content, options, correct_answer, has_diagram, diagram_svg, subject_id, chapter_id, topic_id, difficulty_level_id, question_type_id`

// QuestionRepository reads and imports questions in PostgreSQL.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a question repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// FindQuestionByID returns a question or ErrNotFound.
func (r *QuestionRepository) FindQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1 LIMIT 1`
	var q models.Question
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	return &q, nil
}

// FindQuestionsByIDs resolves the ids that exist, keyed by id.
func (r *QuestionRepository) FindQuestionsByIDs(ctx context.Context, ids []int64) (map[int64]models.Question, error) {
	out := make(map[int64]models.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ANY($1)`
	var rows []models.Question
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find questions by ids: %w", err)
	}
	for _, q := range rows {
		out[q.ID] = q
	}
	return out, nil
}

// FilterQuestions translates criteria into a WHERE clause; an invalid predicate matches nothing.
func (r *QuestionRepository) FilterQuestions(ctx context.Context, c filter.Criteria) ([]models.Question, error) {
	query, args := buildFilterQuery(c)
	questions := make([]models.Question, 0)
	if err := r.db.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("filter questions: %w", err)
	}
	return questions, nil
}

func buildFilterQuery(c filter.Criteria) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	for _, f := range c.Fields() {
		if !f.Predicate.Set {
			continue
		}
		if f.Predicate.Invalid {
			conditions = append(conditions, "FALSE")
			continue
		}
		args = append(args, f.Predicate.Value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", f.Column, len(args)))
	}
	if excluded := c.Excluded(); len(excluded) > 0 {
		args = append(args, pq.Array(excluded))
		conditions = append(conditions, fmt.Sprintf("NOT (id = ANY($%d))", len(args)))
	}

	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	return query + " ORDER BY id ASC", args
}

// CreateQuestions inserts the batch in one transaction and fills in the generated ids.
func (r *QuestionRepository) CreateQuestions(ctx context.Context, questions []models.Question) ([]models.Question, error) {
	if len(questions) == 0 {
		return []models.Question{}, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}

	const query = `INSERT INTO questions (content, options, correct_answer, has_diagram, diagram_svg, subject_id, chapter_id, topic_id, difficulty_level_id, question_type_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	created := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		row := tx.QueryRowxContext(ctx, query, q.Content, q.Options, q.CorrectAnswer, q.HasDiagram, q.DiagramSVG,
			q.SubjectID, q.ChapterID, q.TopicID, q.DifficultyLevelID, q.QuestionTypeID)
		if err := row.Scan(&q.ID); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("insert question: %w", err)
		}
		created = append(created, q)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import tx: %w", err)
	}
	return created, nil
}
