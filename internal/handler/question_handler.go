package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/middleware"
	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/service"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
	"github.com/noah-isme/exam-prep-api/pkg/pagination"
	"github.com/noah-isme/exam-prep-api/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type questionService interface {
	List(ctx context.Context, query service.QuestionQuery) (*pagination.Page[models.Question], bool, error)
	Get(ctx context.Context, id int64) (*models.Question, error)
	Import(ctx context.Context, rows []service.ImportQuestion) (*service.ImportResult, error)
	ImportWorkbook(ctx context.Context, r io.Reader) (*service.ImportResult, error)
}

// QuestionHandler serves the question bank.
type QuestionHandler struct {
	questions      questionService
	maxImportBytes int64
}

// NewQuestionHandler constructs a question handler. maxImportBytes bounds import bodies.
func NewQuestionHandler(questions questionService, maxImportBytes int64) *QuestionHandler {
	if maxImportBytes <= 0 {
		maxImportBytes = 5 << 20
	}
	return &QuestionHandler{questions: questions, maxImportBytes: maxImportBytes}
}

// List godoc
// @Summary List questions
// @Description Filters the bank and returns one page. Topic "all" or 4 disables the topic filter.
// @Tags Questions
// @Produce json
// @Param filters query string false "JSON object with subjectId, chapterId, topicId, difficultyLevelId, questionTypeId"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param excludeIds query string false "Comma-separated question ids to leave out"
// @Success 200 {object} pagination.Page[models.Question]
// @Failure 500 {object} response.ErrorBody
// @Router /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	criteria, err := filter.ParseJSON(c.Query("filters"))
	if err != nil {
		response.Error(c, appErrors.Internal(err, "Failed to fetch questions"))
		return
	}
	criteria = criteria.Exclude(filter.ParseIDList(c.Query("excludeIds"))...)

	page, hit, err := h.questions.List(c.Request.Context(), service.QuestionQuery{
		Criteria: criteria,
		Page:     lenientInt(c, "page"),
		Limit:    lenientInt(c, "limit"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, page)
}

// Get godoc
// @Summary Get question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} response.ErrorBody
// @Router /questions/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "Question not found")
	if !ok {
		return
	}
	q, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, q)
}

// Import godoc
// @Summary Import questions
// @Description Accepts a JSON array of questions or a multipart xlsx upload in field "file".
// @Tags Questions
// @Accept json,mpfd
// @Produce json
// @Param payload body []service.ImportQuestion false "Questions"
// @Param file formData file false "Workbook using the import template"
// @Success 201 {object} service.ImportResult
// @Failure 400 {object} response.ErrorBody
// @Failure 413 {object} response.ErrorBody
// @Router /questions/import [post]
func (h *QuestionHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes)

	var (
		result *service.ImportResult
		err    error
	)
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		result, err = h.importWorkbook(c)
	} else {
		var rows []service.ImportQuestion
		if bindErr := c.ShouldBindJSON(&rows); bindErr != nil {
			response.Error(c, bodyError(bindErr, "Invalid import payload"))
			return
		}
		result, err = h.questions.Import(c.Request.Context(), rows)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *QuestionHandler) importWorkbook(c *gin.Context) (*service.ImportResult, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, bodyError(err, "Upload a workbook in the \"file\" field")
	}
	f, err := header.Open()
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to read upload")
	}
	defer f.Close() //nolint:errcheck
	return h.questions.ImportWorkbook(c.Request.Context(), f)
}

// Template godoc
// @Summary Download the question import template
// @Tags Questions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /questions/import/template [get]
func (h *QuestionHandler) Template(c *gin.Context) {
	data, err := service.ImportTemplate()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "Failed to build template"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="question-import-template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// bodyError maps request body failures to 413 when the size limit tripped and 400 otherwise.
func bodyError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return appErrors.Wrap(err, appErrors.ErrPayloadTooLarge.Code, appErrors.ErrPayloadTooLarge.Status, "Upload is too large")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
