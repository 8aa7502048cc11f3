package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/models"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
)

type attemptStore interface {
	CreateAttempt(ctx context.Context, attempt *models.Attempt) error
	ListAttemptsByUser(ctx context.Context, userID int64) ([]models.Attempt, error)
}

type paperResolver interface {
	Get(ctx context.Context, id int64) (*models.PaperWithQuestions, error)
}

// SubmitAttemptRequest carries a user's answers keyed by question id.
type SubmitAttemptRequest struct {
	UserID  int64              `json:"userId"`
	Answers models.AnswerSheet `json:"answers"`
}

// AttemptService scores mock tests taken against papers.
type AttemptService struct {
	store   attemptStore
	papers  paperResolver
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAttemptService creates an attempt service.
func NewAttemptService(store attemptStore, papers paperResolver, metrics *MetricsService, logger *zap.Logger) *AttemptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptService{store: store, papers: papers, metrics: metrics, logger: logger, now: time.Now}
}

// Submit scores the answers against the paper's resolved questions and stores the attempt.
// Answers for questions that are not on the paper are dropped.
func (s *AttemptService) Submit(ctx context.Context, paperID int64, req SubmitAttemptRequest) (*models.AttemptResult, error) {
	if req.UserID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "User ID is required")
	}
	paper, err := s.papers.Get(ctx, paperID)
	if err != nil {
		return nil, err
	}

	result := Score(paper.Questions, req.Answers)
	result.PaperID = paper.ID
	result.UserID = req.UserID
	result.SubmittedAt = models.FormatCreatedAt(s.now())

	if err := s.store.CreateAttempt(ctx, &result.Attempt); err != nil {
		return nil, appErrors.Internal(err, "Failed to save attempt")
	}
	s.metrics.ObserveAttemptScore(result.Score)
	s.logger.Info("attempt scored",
		zap.Int64("attempt_id", result.ID),
		zap.Int64("paper_id", result.PaperID),
		zap.Float64("score", result.Score),
	)
	return result, nil
}

// ListByUser returns the user's attempts in submission order.
func (s *AttemptService) ListByUser(ctx context.Context, userID int64) ([]models.Attempt, error) {
	if userID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "User ID is required")
	}
	attempts, err := s.store.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch attempts")
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	return attempts, nil
}

// Score grades answers against questions. A blank or missing answer is unanswered;
// the score is the percentage correct rounded to two decimals.
func Score(questions []models.Question, answers models.AnswerSheet) *models.AttemptResult {
	result := &models.AttemptResult{
		Attempt: models.Attempt{Answers: models.AnswerSheet{}, Total: len(questions)},
		Results: make([]models.QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		selected := strings.ToLower(strings.TrimSpace(answers[q.ID]))
		qr := models.QuestionResult{QuestionID: q.ID, Selected: selected, CorrectAnswer: q.CorrectAnswer}
		switch {
		case selected == "":
			result.Unanswered++
		case selected == strings.ToLower(q.CorrectAnswer):
			qr.IsCorrect = true
			result.Correct++
		default:
			result.Incorrect++
		}
		if selected != "" {
			result.Answers[q.ID] = selected
		}
		result.Results = append(result.Results, qr)
	}
	if result.Total > 0 {
		result.Score = math.Round(float64(result.Correct)*10000/float64(result.Total)) / 100
	}
	return result
}
