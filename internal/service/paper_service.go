package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/repository"
	"github.com/noah-isme/exam-prep-api/internal/selection"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
)

// MaxGeneratedQuestions caps the size of an auto-generated paper.
const MaxGeneratedQuestions = 200

type paperStore interface {
	CreatePaper(ctx context.Context, paper *models.Paper, questionIDs []int64) error
	FindPaperByID(ctx context.Context, id int64) (*models.Paper, error)
	ListPapersByUser(ctx context.Context, userID int64) ([]models.Paper, error)
	ListPaperQuestions(ctx context.Context, paperID int64) ([]models.PaperQuestion, error)
	FindQuestionsByIDs(ctx context.Context, ids []int64) (map[int64]models.Question, error)
	FilterQuestions(ctx context.Context, c filter.Criteria) ([]models.Question, error)
}

// CreatePaperRequest is the payload for assembling a paper from chosen questions.
type CreatePaperRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	UserID      int64   `json:"userId" validate:"gt=0"`
	QuestionIDs []int64 `json:"questionIds" validate:"required"`
}

// GeneratePaperRequest asks for a paper of Count random questions matching Filters.
type GeneratePaperRequest struct {
	Title       string                 `json:"title" validate:"required"`
	Description *string                `json:"description"`
	UserID      int64                  `json:"userId" validate:"gt=0"`
	Filters     map[string]interface{} `json:"filters"`
	ExcludeIDs  []int64                `json:"excludeIds"`
	Count       int                    `json:"count" validate:"gt=0,lte=200"`
	Seed        *int64                 `json:"seed"`
}

// PaperService assembles papers and resolves them back with their questions.
type PaperService struct {
	store     paperStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaperService creates a paper service.
func NewPaperService(store paperStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaperService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaperService{store: store, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// Create validates the request, then stores the paper and its question links in selection order.
// A rejected request writes nothing.
func (s *PaperService) Create(ctx context.Context, req CreatePaperRequest) (*models.Paper, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(describeValidation(err), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields")
	}

	paper := &models.Paper{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		CreatedAt:   models.FormatCreatedAt(s.now()),
	}

	done := s.metrics.timeStore("create_paper")
	err := s.store.CreatePaper(ctx, paper, req.QuestionIDs)
	done()
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to create paper")
	}

	s.metrics.IncPapersCreated()
	s.logger.Info("paper created",
		zap.Int64("paper_id", paper.ID),
		zap.Int64("user_id", paper.UserID),
		zap.Int("questions", len(req.QuestionIDs)),
	)
	return paper, nil
}

// Get returns the paper with its questions ordered by position. Links to
// questions that no longer resolve are skipped.
func (s *PaperService) Get(ctx context.Context, id int64) (*models.PaperWithQuestions, error) {
	paper, err := s.store.FindPaperByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Paper not found")
		}
		return nil, appErrors.Internal(err, "Failed to fetch paper")
	}

	done := s.metrics.timeStore("resolve_paper")
	defer done()

	links, err := s.store.ListPaperQuestions(ctx, paper.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch paper")
	}
	ids := make([]int64, len(links))
	for i, link := range links {
		ids[i] = link.QuestionID
	}
	byID, err := s.store.FindQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch paper")
	}

	out := &models.PaperWithQuestions{Paper: *paper, Questions: make([]models.Question, 0, len(links))}
	for _, link := range links {
		q, ok := byID[link.QuestionID]
		if !ok {
			s.logger.Debug("skipping dangling paper question",
				zap.Int64("paper_id", paper.ID),
				zap.Int64("question_id", link.QuestionID),
				zap.Int("order_index", link.OrderIndex),
			)
			continue
		}
		out.Questions = append(out.Questions, q)
	}
	return out, nil
}

// ListByUser returns the user's papers in creation order.
func (s *PaperService) ListByUser(ctx context.Context, userID int64) ([]models.Paper, error) {
	if userID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "User ID is required")
	}
	papers, err := s.store.ListPapersByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch papers")
	}
	if papers == nil {
		papers = []models.Paper{}
	}
	return papers, nil
}

// Generate draws Count distinct questions matching the filters and stores them as a new paper.
// The same Seed over the same bank yields the same paper.
func (s *PaperService) Generate(ctx context.Context, req GeneratePaperRequest) (*models.Paper, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(describeValidation(err), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields")
	}

	criteria := filter.Parse(req.Filters).Exclude(req.ExcludeIDs...)
	done := s.metrics.timeStore("filter_questions")
	pool, err := s.store.FilterQuestions(ctx, criteria)
	done()
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to generate paper")
	}
	if len(pool) < req.Count {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Not enough questions match the filters")
	}

	seed := s.now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	picked := selection.New()
	for _, idx := range rng.Perm(len(pool)) {
		if picked.Len() == req.Count {
			break
		}
		picked.Add(pool[idx].ID)
	}

	return s.Create(ctx, CreatePaperRequest{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		QuestionIDs: picked.IDs(),
	})
}
