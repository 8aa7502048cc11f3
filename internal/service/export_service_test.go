package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/pkg/jobs"
	"github.com/noah-isme/exam-prep-api/pkg/storage"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newExportFixture(t *testing.T) (*ExportService, *recordingQueue, int64) {
	t.Helper()
	papers, _ := newPaperService()
	paper, err := papers.Create(context.Background(), CreatePaperRequest{Title: "Export me", UserID: 1, QuestionIDs: []int64{49587, 49590, 49592}})
	require.NoError(t, err)

	disk, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(papers, disk, storage.NewSigner("secret", time.Hour), NewMetricsService(), zap.NewNop(),
		ExportConfig{APIPrefix: "/api", ResultTTL: 2 * time.Hour})

	queue := &recordingQueue{}
	svc.SetQueue(queue)
	return svc, queue, paper.ID
}

func TestExportLifecycle(t *testing.T) {
	svc, queue, paperID := newExportFixture(t)
	ctx := context.Background()

	record, err := svc.Request(ctx, paperID, "CSV")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, record.Status)
	assert.Equal(t, models.ExportFormatCSV, record.Format)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, record.ID, queue.jobs[0].ID)

	require.NoError(t, svc.Handle(ctx, queue.jobs[0]))

	done, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, done.Status)
	require.NotNil(t, done.ResultURL)
	require.True(t, strings.HasPrefix(*done.ResultURL, "/api/downloads/"))

	token := strings.TrimPrefix(*done.ResultURL, "/api/downloads/")
	download, err := svc.Download(ctx, token)
	require.NoError(t, err)
	defer download.File.Close() //nolint:errcheck
	assert.Equal(t, record.ID+".csv", download.Filename)
	assert.Equal(t, "text/csv", download.ContentType)

	body, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(body), "\n"))
}

func TestExportRequestValidation(t *testing.T) {
	svc, queue, paperID := newExportFixture(t)
	ctx := context.Background()

	_, err := svc.Request(ctx, paperID, "docx")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.Request(ctx, 999, models.ExportFormatPDF)
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	_, err = svc.Get(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	queue.err = errors.New("full")
	_, err = svc.Request(ctx, paperID, models.ExportFormatPDF)
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}

func TestExportDownloadRejectsBadTokens(t *testing.T) {
	svc, _, _ := newExportFixture(t)
	_, err := svc.Download(context.Background(), "nope")
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}

func TestExportGiveUpMarksFailed(t *testing.T) {
	svc, queue, paperID := newExportFixture(t)
	ctx := context.Background()

	record, err := svc.Request(ctx, paperID, models.ExportFormatXLSX)
	require.NoError(t, err)
	svc.GiveUp(ctx, queue.jobs[0], errors.New("disk full"))

	failed, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Equal(t, "disk full", *failed.ErrorMessage)
}

func TestExportCleanupDropsExpiredJobs(t *testing.T) {
	svc, queue, paperID := newExportFixture(t)
	ctx := context.Background()

	record, err := svc.Request(ctx, paperID, models.ExportFormatPDF)
	require.NoError(t, err)
	require.NoError(t, svc.Handle(ctx, queue.jobs[0]))

	assert.Zero(t, svc.Cleanup())

	later := time.Now().Add(3 * time.Hour)
	svc.now = func() time.Time { return later }
	assert.Equal(t, 1, svc.Cleanup())

	_, err = svc.Get(ctx, record.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestExportThroughWorkerQueue(t *testing.T) {
	svc, _, paperID := newExportFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := jobs.NewQueue("exports", svc.Handle, jobs.Config{Workers: 2, RetryDelay: time.Millisecond, OnGiveUp: svc.GiveUp})
	queue.Start(ctx)
	defer queue.Stop()
	svc.SetQueue(queue)

	record, err := svc.Request(ctx, paperID, models.ExportFormatPDF)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := svc.Get(ctx, record.ID)
		return err == nil && current.Status == models.ExportStatusFinished
	}, 5*time.Second, 10*time.Millisecond)
}

func TestToExportPaperCarriesAnswerText(t *testing.T) {
	desc := "warm-up"
	p := &models.PaperWithQuestions{
		Paper: models.Paper{Title: "Drill", Description: &desc},
		Questions: []models.Question{
			{ID: 1, Content: "Unit of force?", Options: models.Options{"Joule", "Newton", "Watt", "Pascal"}, CorrectAnswer: "B"},
			{ID: 2, Content: "Broken key", Options: models.Options{"x", "y", "z", "w"}, CorrectAnswer: "e"},
		},
	}

	out := toExportPaper(p)

	require.Len(t, out.Items, 2)
	assert.Equal(t, "warm-up", out.Description)
	assert.Equal(t, 1, out.Items[0].Number)
	assert.Equal(t, "Newton", out.Items[0].AnswerText)
	assert.Equal(t, "", out.Items[1].AnswerText)
}
