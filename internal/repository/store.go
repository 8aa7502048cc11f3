package repository

import (
	"context"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/models"
)

// Store is the full persistence surface. MemoryStore and PostgresStore both implement it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	FindQuestionByID(ctx context.Context, id int64) (*models.Question, error)
	FindQuestionsByIDs(ctx context.Context, ids []int64) (map[int64]models.Question, error)
	FilterQuestions(ctx context.Context, c filter.Criteria) ([]models.Question, error)
	CreateQuestions(ctx context.Context, questions []models.Question) ([]models.Question, error)

	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListChapters(ctx context.Context, subjectID int64) ([]models.Chapter, error)
	ListTopics(ctx context.Context, chapterID int64) ([]models.Topic, error)
	ListQuestionTypes(ctx context.Context) ([]models.QuestionType, error)
	ListDifficultyLevels(ctx context.Context) ([]models.DifficultyLevel, error)

	CreatePaper(ctx context.Context, paper *models.Paper, questionIDs []int64) error
	FindPaperByID(ctx context.Context, id int64) (*models.Paper, error)
	ListPapersByUser(ctx context.Context, userID int64) ([]models.Paper, error)
	ListPaperQuestions(ctx context.Context, paperID int64) ([]models.PaperQuestion, error)

	CreateAttempt(ctx context.Context, attempt *models.Attempt) error
	ListAttemptsByUser(ctx context.Context, userID int64) ([]models.Attempt, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
