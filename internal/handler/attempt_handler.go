package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/service"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
	"github.com/noah-isme/exam-prep-api/pkg/response"
)

type attemptService interface {
	Submit(ctx context.Context, paperID int64, req service.SubmitAttemptRequest) (*models.AttemptResult, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Attempt, error)
}

// AttemptHandler runs mock tests.
type AttemptHandler struct {
	attempts attemptService
}

// NewAttemptHandler constructs an attempt handler.
func NewAttemptHandler(attempts attemptService) *AttemptHandler {
	return &AttemptHandler{attempts: attempts}
}

// Submit godoc
// @Summary Submit a mock test
// @Description Scores answers keyed by question id against the paper.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param id path int true "Paper ID"
// @Param payload body service.SubmitAttemptRequest true "Answers"
// @Success 201 {object} models.AttemptResult
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /papers/{id}/attempts [post]
func (h *AttemptHandler) Submit(c *gin.Context) {
	paperID, ok := pathID(c, "Paper not found")
	if !ok {
		return
	}
	var req service.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid answers payload"))
		return
	}
	result, err := h.attempts.Submit(c.Request.Context(), paperID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List a user's attempts
// @Tags Attempts
// @Produce json
// @Param userId query int true "User"
// @Success 200 {array} models.Attempt
// @Failure 400 {object} response.ErrorBody
// @Router /attempts [get]
func (h *AttemptHandler) List(c *gin.Context) {
	attempts, err := h.attempts.ListByUser(c.Request.Context(), lenientID(c, "userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, attempts)
}
