package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/repository"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
	"github.com/noah-isme/exam-prep-api/pkg/pagination"
)

type questionStore interface {
	FilterQuestions(ctx context.Context, c filter.Criteria) ([]models.Question, error)
	FindQuestionByID(ctx context.Context, id int64) (*models.Question, error)
	CreateQuestions(ctx context.Context, questions []models.Question) ([]models.Question, error)
}

// QuestionQuery is a parsed question listing request.
type QuestionQuery struct {
	Criteria filter.Criteria
	Page     int
	Limit    int
}

// ImportQuestion is one question submitted for import.
type ImportQuestion struct {
	Content           string   `json:"content" validate:"required"`
	Options           []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer     string   `json:"correctAnswer" validate:"required,oneof=a b c d A B C D"`
	HasDiagram        bool     `json:"hasDiagram"`
	DiagramSVG        *string  `json:"diagramSvg"`
	SubjectID         int64    `json:"subjectId" validate:"gt=0"`
	ChapterID         int64    `json:"chapterId" validate:"gt=0"`
	TopicID           *int64   `json:"topicId" validate:"omitempty,gt=0"`
	DifficultyLevelID int64    `json:"difficultyLevelId" validate:"gt=0"`
	QuestionTypeID    int64    `json:"questionTypeId" validate:"gt=0"`
}

// ImportRowError reports why one row was rejected. Row is 1-based.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarises an import batch.
type ImportResult struct {
	Imported int              `json:"imported"`
	IDs      []int64          `json:"ids"`
	Errors   []ImportRowError `json:"errors"`
}

// QuestionService serves the question bank: filtered pages, lookups and imports.
type QuestionService struct {
	store        questionStore
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	defaultLimit int
}

// NewQuestionService creates a question service. cache and metrics may be nil.
func NewQuestionService(store questionStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, defaultLimit int) *QuestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = pagination.DefaultLimit
	}
	return &QuestionService{store: store, cache: cache, metrics: metrics, validator: validate, logger: logger, defaultLimit: defaultLimit}
}

// List filters the bank and returns one page. The boolean reports a cache hit.
func (s *QuestionService) List(ctx context.Context, query QuestionQuery) (*pagination.Page[models.Question], bool, error) {
	page, limit := pagination.Normalize(query.Page, query.Limit, s.defaultLimit)
	key := fmt.Sprintf("%s%s;page=%d;limit=%d", cachePrefixQuestions, query.Criteria.Key(), page, limit)

	var cached pagination.Page[models.Question]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	done := s.metrics.timeStore("filter_questions")
	matched, err := s.store.FilterQuestions(ctx, query.Criteria)
	done()
	if err != nil {
		return nil, false, appErrors.Internal(err, "Failed to fetch questions")
	}

	result := pagination.Paginate(matched, page, limit)
	s.cache.Set(ctx, key, result)
	return &result, false, nil
}

// Get returns one question.
func (s *QuestionService) Get(ctx context.Context, id int64) (*models.Question, error) {
	q, err := s.store.FindQuestionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Question not found")
		}
		return nil, appErrors.Internal(err, "Failed to fetch question")
	}
	return q, nil
}

// Import validates every row, stores the valid ones in one batch and reports the rest.
func (s *QuestionService) Import(ctx context.Context, rows []ImportQuestion) (*ImportResult, error) {
	numbered := make([]importRow, len(rows))
	for i, row := range rows {
		numbered[i] = importRow{number: i + 1, question: row}
	}
	return s.importRows(ctx, numbered, nil)
}

type importRow struct {
	number   int
	question ImportQuestion
}

// importRows stores the valid rows and merges their failures with rows the caller already rejected.
func (s *QuestionService) importRows(ctx context.Context, rows []importRow, rejected []ImportRowError) (*ImportResult, error) {
	if len(rows) == 0 && len(rejected) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No questions to import")
	}

	result := &ImportResult{IDs: []int64{}, Errors: append([]ImportRowError{}, rejected...)}
	valid := make([]models.Question, 0, len(rows))
	for _, row := range rows {
		q, err := s.toQuestion(row.question)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row.number, Error: err.Error()})
			continue
		}
		valid = append(valid, q)
	}
	sort.SliceStable(result.Errors, func(i, j int) bool { return result.Errors[i].Row < result.Errors[j].Row })

	if len(valid) > 0 {
		done := s.metrics.timeStore("create_questions")
		created, err := s.store.CreateQuestions(ctx, valid)
		done()
		if err != nil {
			return nil, appErrors.Internal(err, "Failed to import questions")
		}
		for _, q := range created {
			result.IDs = append(result.IDs, q.ID)
		}
		result.Imported = len(created)
		s.metrics.AddImported(len(created))
		s.cache.Invalidate(ctx, cachePrefixQuestions)
	}

	s.logger.Info("questions imported", zap.Int("imported", result.Imported), zap.Int("rejected", len(result.Errors)))
	return result, nil
}

func (s *QuestionService) toQuestion(row ImportQuestion) (models.Question, error) {
	row.Content = strings.TrimSpace(row.Content)
	if err := s.validator.Struct(row); err != nil {
		return models.Question{}, describeValidation(err)
	}
	if row.DiagramSVG != nil && strings.TrimSpace(*row.DiagramSVG) == "" {
		row.DiagramSVG = nil
	}
	if row.DiagramSVG != nil && !row.HasDiagram {
		return models.Question{}, errors.New("diagramSvg requires hasDiagram")
	}
	return models.Question{
		Content:           row.Content,
		Options:           append(models.Options{}, row.Options...),
		CorrectAnswer:     strings.ToLower(row.CorrectAnswer),
		HasDiagram:        row.HasDiagram,
		DiagramSVG:        row.DiagramSVG,
		SubjectID:         row.SubjectID,
		ChapterID:         row.ChapterID,
		TopicID:           row.TopicID,
		DifficultyLevelID: row.DifficultyLevelID,
		QuestionTypeID:    row.QuestionTypeID,
	}, nil
}

// describeValidation turns validator output into a short "field: rule" list.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
