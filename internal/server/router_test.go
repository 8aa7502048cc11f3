package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/repository"
	"github.com/noah-isme/exam-prep-api/pkg/config"
	"github.com/noah-isme/exam-prep-api/pkg/pagination"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:         config.EnvDevelopment,
		APIPrefix:   "/api",
		StoreDriver: config.StoreMemory,
		Cache:       config.CacheConfig{TTL: time.Minute},
		Pagination:  config.PaginationConfig{DefaultLimit: 10},
		Exports: config.ExportsConfig{
			Enabled:         true,
			StorageDir:      t.TempDir(),
			SignedURLSecret: "integration-secret",
			SignedURLTTL:    time.Hour,
			Workers:         1,
			Retries:         1,
		},
		Imports: config.ImportsConfig{MaxBytes: 1 << 20},
		Users:   config.UsersConfig{BcryptCost: bcrypt.MinCost},
	}
}

func newTestApp(t *testing.T) (*App, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repository.NewSeededMemoryStore()
	app, err := New(Deps{Config: testConfig(t), Store: store})
	require.NoError(t, err)
	app.Start(context.Background())
	t.Cleanup(app.Stop)
	return app, store
}

func do(t *testing.T, app *App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func questionsURL(filters string, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	if filters != "" {
		q.Set("filters", filters)
	}
	return "/api/questions?" + q.Encode()
}

func TestSeededChapterFirstPage(t *testing.T) {
	app, _ := newTestApp(t)

	w := do(t, app, http.MethodGet, questionsURL(`{"subjectId":1,"chapterId":4}`, url.Values{"limit": {"10"}, "page": {"1"}}), "")
	require.Equal(t, http.StatusOK, w.Code)

	page := decode[pagination.Page[models.Question]](t, w)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 27, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTopicSentinelMatchesOmittedTopic(t *testing.T) {
	app, _ := newTestApp(t)
	limit := url.Values{"limit": {"100"}}

	omitted := decode[pagination.Page[models.Question]](t, do(t, app, http.MethodGet, questionsURL(`{"chapterId":4}`, limit), ""))
	all := decode[pagination.Page[models.Question]](t, do(t, app, http.MethodGet, questionsURL(`{"chapterId":4,"topicId":"all"}`, limit), ""))
	allRow := decode[pagination.Page[models.Question]](t, do(t, app, http.MethodGet, questionsURL(`{"chapterId":4,"topicId":4}`, limit), ""))
	projectile := decode[pagination.Page[models.Question]](t, do(t, app, http.MethodGet, questionsURL(`{"chapterId":4,"topicId":2}`, limit), ""))

	assert.Equal(t, omitted.Items, all.Items)
	assert.Equal(t, omitted.Items, allRow.Items)
	assert.Less(t, projectile.Total, omitted.Total)
	for _, q := range projectile.Items {
		require.NotNil(t, q.TopicID)
		assert.Equal(t, int64(2), *q.TopicID)
	}
}

func TestExcludeIdsAndOutOfRangePage(t *testing.T) {
	app, _ := newTestApp(t)

	page := decode[pagination.Page[models.Question]](t, do(t, app, http.MethodGet,
		questionsURL(`{"chapterId":4}`, url.Values{"limit": {"100"}, "excludeIds": {"49587,49590"}}), ""))
	assert.Equal(t, 25, page.Total)
	for _, q := range page.Items {
		assert.NotContains(t, []int64{49587, 49590}, q.ID)
	}

	far := decode[pagination.Page[models.Question]](t, do(t, app, http.MethodGet, questionsURL("", url.Values{"page": {"50"}}), ""))
	assert.Empty(t, far.Items)
	assert.Equal(t, 27, far.Total)
	assert.Equal(t, 3, far.TotalPages)

	huge := decode[pagination.Page[models.Question]](t, do(t, app, http.MethodGet,
		questionsURL("", url.Values{"page": {"4611686018427387905"}, "limit": {"4"}}), ""))
	assert.Empty(t, huge.Items)
	assert.Equal(t, 7, huge.TotalPages)
}

func TestPaperRoundTripOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/papers", `{"title":"T","userId":1,"questionIds":[49587,49590,49592]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Paper](t, w)
	assert.True(t, strings.HasSuffix(created.CreatedAt, "Z"))

	w = do(t, app, http.MethodGet, "/api/papers/"+jsonNumber(created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	paper := decode[models.PaperWithQuestions](t, w)
	require.Len(t, paper.Questions, 3)
	assert.Equal(t, int64(49587), paper.Questions[0].ID)
	assert.Equal(t, int64(49590), paper.Questions[1].ID)
	assert.Equal(t, int64(49592), paper.Questions[2].ID)

	w = do(t, app, http.MethodGet, "/api/papers?userId=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Paper](t, w), 1)
}

func TestPaperValidationLeavesNoState(t *testing.T) {
	app, store := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/papers", `{"userId":1,"questionIds":[49587]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing required fields"}`, w.Body.String())

	w = do(t, app, http.MethodPost, "/api/papers", `{"title":"T","questionIds":[49587]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	papers, err := store.ListPapersByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, papers)

	w = do(t, app, http.MethodGet, "/api/papers", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"User ID is required"}`, w.Body.String())

	w = do(t, app, http.MethodGet, "/api/papers/999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Paper not found"}`, w.Body.String())
}

func TestMockTestAttempt(t *testing.T) {
	app, _ := newTestApp(t)

	created := decode[models.Paper](t, do(t, app, http.MethodPost, "/api/papers", `{"title":"Mock","userId":3,"questionIds":[49587,49590]}`))
	first := decode[models.Question](t, do(t, app, http.MethodGet, "/api/questions/49587", ""))

	body := `{"userId":3,"answers":{"49587":"` + strings.ToUpper(first.CorrectAnswer) + `"}}`
	w := do(t, app, http.MethodPost, "/api/papers/"+jsonNumber(created.ID)+"/attempts", body)
	require.Equal(t, http.StatusCreated, w.Code)
	result := decode[models.AttemptResult](t, w)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Unanswered)
	assert.Equal(t, 50.0, result.Score)

	w = do(t, app, http.MethodGet, "/api/attempts?userId=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Attempt](t, w), 1)
}

func TestReferenceRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	subjects := decode[[]models.Subject](t, do(t, app, http.MethodGet, "/api/subjects", ""))
	assert.Len(t, subjects, 4)

	chapters := decode[[]models.Chapter](t, do(t, app, http.MethodGet, "/api/chapters?subjectId=1", ""))
	assert.Len(t, chapters, 4)

	topics := decode[[]models.Topic](t, do(t, app, http.MethodGet, "/api/topics?chapterId=4", ""))
	assert.Len(t, topics, 4)

	w := do(t, app, http.MethodGet, "/api/chapters?subjectId=nope", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Chapter](t, w), 4)

	w = do(t, app, http.MethodGet, "/api/topics?chapterId=abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Topic](t, w), 4)

	assert.Empty(t, decode[[]models.Chapter](t, do(t, app, http.MethodGet, "/api/chapters?subjectId=2", "")))

	for _, path := range []string{"/api/question-types", "/api/difficulty-levels"} {
		assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, path, "").Code, path)
	}
}

func TestUserRegistrationAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	w := do(t, app, http.MethodPost, "/api/users", `{"username":"rani","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = do(t, app, http.MethodPost, "/api/users", `{"username":"rani","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, app, http.MethodPost, "/api/users/login", `{"username":"rani","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, app, http.MethodPost, "/api/users/login", `{"username":"rani","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportLifecycleOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	created := decode[models.Paper](t, do(t, app, http.MethodPost, "/api/papers", `{"title":"Export","userId":1,"questionIds":[49587,49590]}`))

	w := do(t, app, http.MethodPost, "/api/papers/"+jsonNumber(created.ID)+"/exports", `{"format":"csv"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	job := decode[models.PaperExport](t, w)

	var finished models.PaperExport
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/exports/"+job.ID, nil)
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		if err := json.Unmarshal(rec.Body.Bytes(), &finished); err != nil {
			return false
		}
		return finished.Status == models.ExportStatusFinished
	}, 5*time.Second, 20*time.Millisecond)
	require.NotNil(t, finished.ResultURL)

	w = do(t, app, http.MethodGet, *finished.ResultURL, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "49587")

	w = do(t, app, http.MethodGet, "/api/downloads/forged.token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, app, http.MethodPost, "/api/papers/"+jsonNumber(created.ID)+"/exports", `{"format":"docx"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProbesAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/ready", "").Code)

	do(t, app, http.MethodGet, "/api/subjects", "")
	w := do(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func jsonNumber(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
