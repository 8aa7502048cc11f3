package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Question ids are not constrained against questions: paper reads skip dangling links.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		number INTEGER NOT NULL,
		subject_id BIGINT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		chapter_id BIGINT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS question_types (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS difficulty_levels (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		options JSONB NOT NULL,
		correct_answer TEXT NOT NULL CHECK (correct_answer IN ('a','b','c','d')),
		has_diagram BOOLEAN NOT NULL DEFAULT FALSE,
		diagram_svg TEXT,
		subject_id BIGINT NOT NULL,
		chapter_id BIGINT NOT NULL,
		topic_id BIGINT,
		difficulty_level_id BIGINT NOT NULL,
		question_type_id BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS papers (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		user_id BIGINT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS paper_questions (
		id BIGSERIAL PRIMARY KEY,
		paper_id BIGINT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL,
		order_index INTEGER NOT NULL,
		UNIQUE (paper_id, order_index)
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id BIGSERIAL PRIMARY KEY,
		paper_id BIGINT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL,
		answers JSONB NOT NULL,
		correct INTEGER NOT NULL,
		incorrect INTEGER NOT NULL,
		unanswered INTEGER NOT NULL,
		total INTEGER NOT NULL,
		score NUMERIC(5,2) NOT NULL,
		submitted_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_filter ON questions(subject_id, chapter_id, topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_papers_user ON papers(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id)`,
}

var seededTables = []string{"subjects", "chapters", "topics", "question_types", "difficulty_levels", "questions"}

// EnsureSchema creates the question bank tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedCatalogue loads seed into an empty database inside one transaction.
// A database that already has subjects is left untouched.
func SeedCatalogue(ctx context.Context, db *sqlx.DB, seed SeedData) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM subjects`); err != nil {
		return fmt.Errorf("count subjects: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}

	inserts := []struct {
		query string
		rows  interface{}
	}{
		{`INSERT INTO subjects (id, name, description) VALUES (:id, :name, :description)`, seed.Subjects},
		{`INSERT INTO chapters (id, name, number, subject_id, description) VALUES (:id, :name, :number, :subject_id, :description)`, seed.Chapters},
		{`INSERT INTO topics (id, name, chapter_id, description) VALUES (:id, :name, :chapter_id, :description)`, seed.Topics},
		{`INSERT INTO question_types (id, name, description) VALUES (:id, :name, :description)`, seed.QuestionTypes},
		{`INSERT INTO difficulty_levels (id, name, description) VALUES (:id, :name, :description)`, seed.DifficultyLevels},
		{`INSERT INTO questions (id, content, options, correct_answer, has_diagram, diagram_svg, subject_id, chapter_id, topic_id, difficulty_level_id, question_type_id)
VALUES (:id, :content, :options, :correct_answer, :has_diagram, :diagram_svg, :subject_id, :chapter_id, :topic_id, :difficulty_level_id, :question_type_id)`, seed.Questions},
	}
	for _, insert := range inserts {
		if _, err := tx.NamedExecContext(ctx, insert.query, insert.rows); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed catalogue: %w", err)
		}
	}

	for _, table := range seededTables {
		query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))`, table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("advance %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
