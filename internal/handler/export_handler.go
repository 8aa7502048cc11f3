package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/service"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
	"github.com/noah-isme/exam-prep-api/pkg/response"
)

type exportService interface {
	Request(ctx context.Context, paperID int64, format models.ExportFormat) (*models.PaperExport, error)
	Get(ctx context.Context, id string) (*models.PaperExport, error)
	Download(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportRequest selects the rendering of a paper export.
type ExportRequest struct {
	Format models.ExportFormat `json:"format" binding:"required"`
}

// ExportHandler exposes asynchronous paper exports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Request godoc
// @Summary Export paper
// @Description Queues a pdf, csv or xlsx rendering of the paper, answer key included.
// @Tags Exports
// @Accept json
// @Produce json
// @Param id path int true "Paper ID"
// @Param payload body ExportRequest true "Format"
// @Success 202 {object} models.PaperExport
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /papers/{id}/exports [post]
func (h *ExportHandler) Request(c *gin.Context) {
	paperID, ok := pathID(c, "Paper not found")
	if !ok {
		return
	}
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Export format is required"))
		return
	}
	job, err := h.exports.Request(c.Request.Context(), paperID, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Status godoc
// @Summary Export status
// @Tags Exports
// @Produce json
// @Param id path string true "Export ID"
// @Success 200 {object} models.PaperExport
// @Failure 404 {object} response.ErrorBody
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.exports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, job)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.ErrorBody
// @Router /downloads/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.exports.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.File.Close() //nolint:errcheck

	modTime := time.Time{}
	if info, statErr := file.File.Stat(); statErr == nil {
		modTime = info.ModTime()
	}
	c.Header("Content-Type", file.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	http.ServeContent(c.Writer, c.Request, file.Filename, modTime, file.File)
}
