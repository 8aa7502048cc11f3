package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/service"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
	"github.com/noah-isme/exam-prep-api/pkg/response"
)

type paperService interface {
	Create(ctx context.Context, req service.CreatePaperRequest) (*models.Paper, error)
	Get(ctx context.Context, id int64) (*models.PaperWithQuestions, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Paper, error)
	Generate(ctx context.Context, req service.GeneratePaperRequest) (*models.Paper, error)
}

// PaperHandler assembles and serves papers.
type PaperHandler struct {
	papers paperService
}

// NewPaperHandler constructs a paper handler.
func NewPaperHandler(papers paperService) *PaperHandler {
	return &PaperHandler{papers: papers}
}

// Create godoc
// @Summary Create paper
// @Description Stores a paper with the selected questions in selection order.
// @Tags Papers
// @Accept json
// @Produce json
// @Param payload body service.CreatePaperRequest true "Paper"
// @Success 201 {object} models.Paper
// @Failure 400 {object} response.ErrorBody
// @Router /papers [post]
func (h *PaperHandler) Create(c *gin.Context) {
	var req service.CreatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields"))
		return
	}
	paper, err := h.papers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, paper)
}

// Generate godoc
// @Summary Generate paper
// @Description Draws count random questions matching the filters. A seed makes the draw repeatable.
// @Tags Papers
// @Accept json
// @Produce json
// @Param payload body service.GeneratePaperRequest true "Generation request"
// @Success 201 {object} models.Paper
// @Failure 400 {object} response.ErrorBody
// @Router /papers/generate [post]
func (h *PaperHandler) Generate(c *gin.Context) {
	var req service.GeneratePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields"))
		return
	}
	paper, err := h.papers.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, paper)
}

// List godoc
// @Summary List a user's papers
// @Tags Papers
// @Produce json
// @Param userId query int true "Owner"
// @Success 200 {array} models.Paper
// @Failure 400 {object} response.ErrorBody
// @Router /papers [get]
func (h *PaperHandler) List(c *gin.Context) {
	papers, err := h.papers.ListByUser(c.Request.Context(), lenientID(c, "userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, papers)
}

// Get godoc
// @Summary Get paper with questions
// @Tags Papers
// @Produce json
// @Param id path int true "Paper ID"
// @Success 200 {object} models.PaperWithQuestions
// @Failure 404 {object} response.ErrorBody
// @Router /papers/{id} [get]
func (h *PaperHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "Paper not found")
	if !ok {
		return
	}
	paper, err := h.papers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, paper)
}
