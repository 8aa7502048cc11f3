package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/pkg/response"
)

type referenceService interface {
	Subjects(ctx context.Context) ([]models.Subject, error)
	Chapters(ctx context.Context, subjectID int64) ([]models.Chapter, error)
	Topics(ctx context.Context, chapterID int64) ([]models.Topic, error)
	QuestionTypes(ctx context.Context) ([]models.QuestionType, error)
	DifficultyLevels(ctx context.Context) ([]models.DifficultyLevel, error)
}

// ReferenceHandler exposes the lookup tables behind the filter controls.
type ReferenceHandler struct {
	reference referenceService
}

// NewReferenceHandler constructs a reference handler.
func NewReferenceHandler(reference referenceService) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

// Subjects godoc
// @Summary List subjects
// @Tags Reference
// @Produce json
// @Success 200 {array} models.Subject
// @Router /subjects [get]
func (h *ReferenceHandler) Subjects(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.reference.Subjects(c.Request.Context()) })
}

// Chapters godoc
// @Summary List chapters
// @Tags Reference
// @Produce json
// @Param subjectId query int false "Only chapters of this subject; malformed values list every chapter"
// @Success 200 {array} models.Chapter
// @Router /chapters [get]
func (h *ReferenceHandler) Chapters(c *gin.Context) {
	subjectID := lenientID(c, "subjectId")
	respond(c, func() (interface{}, error) { return h.reference.Chapters(c.Request.Context(), subjectID) })
}

// Topics godoc
// @Summary List topics
// @Tags Reference
// @Produce json
// @Param chapterId query int false "Only topics of this chapter; malformed values list every topic"
// @Success 200 {array} models.Topic
// @Router /topics [get]
func (h *ReferenceHandler) Topics(c *gin.Context) {
	chapterID := lenientID(c, "chapterId")
	respond(c, func() (interface{}, error) { return h.reference.Topics(c.Request.Context(), chapterID) })
}

// QuestionTypes godoc
// @Summary List question types
// @Tags Reference
// @Produce json
// @Success 200 {array} models.QuestionType
// @Router /question-types [get]
func (h *ReferenceHandler) QuestionTypes(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.reference.QuestionTypes(c.Request.Context()) })
}

// DifficultyLevels godoc
// @Summary List difficulty levels
// @Tags Reference
// @Produce json
// @Success 200 {array} models.DifficultyLevel
// @Router /difficulty-levels [get]
func (h *ReferenceHandler) DifficultyLevels(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.reference.DifficultyLevels(c.Request.Context()) })
}

func respond(c *gin.Context, load func() (interface{}, error)) {
	data, err := load()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}
