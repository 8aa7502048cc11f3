package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/models"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
	"github.com/noah-isme/exam-prep-api/pkg/export"
	"github.com/noah-isme/exam-prep-api/pkg/jobs"
	"github.com/noah-isme/exam-prep-api/pkg/storage"
)

const exportJobKind = "paper_export"

type fileStorage interface {
	Save(name string, data []byte) error
	Open(name string) (*os.File, error)
	Remove(name string) error
	PurgeBefore(cutoff time.Time) ([]string, error)
}

type tokenSigner interface {
	Sign(exportID, path string, now time.Time) (string, time.Time, error)
	Verify(token string, now time.Time, allowExpired bool) (storage.DownloadToken, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ExportConfig tunes export links and retention.
type ExportConfig struct {
	APIPrefix       string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportDownload is an opened export file ready to stream.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
}

// ExportService tracks asynchronous paper exports. Jobs live in an in-process registry.
type ExportService struct {
	papers    paperResolver
	storage   fileStorage
	signer    tokenSigner
	renderers map[models.ExportFormat]export.Renderer
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time

	mu    sync.RWMutex
	queue jobDispatcher
	jobs  map[string]*exportJob
}

type exportJob struct {
	record models.PaperExport
	path   string
}

// NewExportService constructs the service. Call SetQueue before accepting requests.
func NewExportService(papers paperResolver, store fileStorage, signer tokenSigner, metrics *MetricsService, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		papers:  papers,
		storage: store,
		signer:  signer,
		renderers: map[models.ExportFormat]export.Renderer{
			models.ExportFormatPDF:  export.NewPDFExporter(),
			models.ExportFormatCSV:  export.NewCSVExporter(),
			models.ExportFormatXLSX: export.NewXLSXExporter(),
		},
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		jobs:    make(map[string]*exportJob),
	}
}

// SetQueue attaches the dispatcher whose workers call Handle.
func (s *ExportService) SetQueue(q jobDispatcher) {
	s.mu.Lock()
	s.queue = q
	s.mu.Unlock()
}

// Request registers an export of the paper and queues it for rendering.
func (s *ExportService) Request(ctx context.Context, paperID int64, format models.ExportFormat) (*models.PaperExport, error) {
	format = models.ExportFormat(strings.ToLower(string(format)))
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Unsupported export format")
	}
	if _, err := s.papers.Get(ctx, paperID); err != nil {
		return nil, err
	}

	job := &exportJob{record: models.PaperExport{
		ID:        uuid.NewString(),
		PaperID:   paperID,
		Format:    format,
		Status:    models.ExportStatusQueued,
		CreatedAt: s.now().UTC(),
	}}

	s.mu.Lock()
	s.jobs[job.record.ID] = job
	queue := s.queue
	s.mu.Unlock()

	if queue == nil {
		err := errors.New("export queue not configured")
		s.fail(job.record.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "Exports are unavailable")
	}
	if err := queue.Enqueue(jobs.Job{ID: job.record.ID, Kind: exportJobKind}); err != nil {
		s.fail(job.record.ID, err)
		return nil, appErrors.Internal(err, "Failed to queue export")
	}

	s.logger.Info("export queued", zap.String("export_id", job.record.ID), zap.Int64("paper_id", paperID), zap.String("format", string(format)))
	return s.snapshot(job.record.ID)
}

// Get returns the current state of an export.
func (s *ExportService) Get(_ context.Context, id string) (*models.PaperExport, error) {
	return s.snapshot(id)
}

// Handle renders one queued export. Returning an error lets the queue retry it.
func (s *ExportService) Handle(ctx context.Context, job jobs.Job) error {
	record, err := s.snapshot(job.ID)
	if err != nil {
		return fmt.Errorf("export %s: %w", job.ID, err)
	}
	s.update(job.ID, func(j *exportJob) { j.record.Status = models.ExportStatusProcessing })

	paper, err := s.papers.Get(ctx, record.PaperID)
	if err != nil {
		return s.retryable(job, err)
	}
	renderer := s.renderers[record.Format]
	data, err := renderer.Render(toExportPaper(paper))
	if err != nil {
		return s.retryable(job, err)
	}

	name := path.Join(fmt.Sprintf("paper-%d", record.PaperID), record.ID+"."+string(record.Format))
	if err := s.storage.Save(name, data); err != nil {
		return s.retryable(job, err)
	}
	token, _, err := s.signer.Sign(record.ID, name, s.now())
	if err != nil {
		return s.retryable(job, err)
	}

	url := strings.TrimRight(s.cfg.APIPrefix, "/") + "/downloads/" + token
	finished := s.now().UTC()
	s.update(job.ID, func(j *exportJob) {
		j.path = name
		j.record.Status = models.ExportStatusFinished
		j.record.ResultURL = &url
		j.record.ErrorMessage = nil
		j.record.FinishedAt = &finished
	})
	s.metrics.RecordExportJob(string(record.Format), "finished")
	s.logger.Info("export finished", zap.String("export_id", record.ID), zap.Int("bytes", len(data)))
	return nil
}

// GiveUp marks an export failed once the queue stops retrying it.
func (s *ExportService) GiveUp(_ context.Context, job jobs.Job, err error) {
	s.fail(job.ID, err)
}

// Download verifies a signed token and opens the file it points to.
func (s *ExportService) Download(_ context.Context, token string) (*ExportDownload, error) {
	claim, err := s.signer.Verify(token, s.now(), false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "Invalid or expired download link")
	}

	s.mu.RLock()
	job, ok := s.jobs[claim.ExportID]
	var format models.ExportFormat
	var ready bool
	if ok {
		format = job.record.Format
		ready = job.record.Status == models.ExportStatusFinished && job.path == claim.Path
	}
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Export not found")
	}
	if !ready {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Export is not ready")
	}

	f, err := s.storage.Open(claim.Path)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Export file is no longer available")
	}
	return &ExportDownload{File: f, Filename: path.Base(claim.Path), ContentType: format.ContentType()}, nil
}

// StartCleanup purges expired files and registry entries on every tick until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Cleanup drops exports that finished more than ResultTTL ago along with their files.
func (s *ExportService) Cleanup() int {
	cutoff := s.now().Add(-s.cfg.ResultTTL)

	s.mu.Lock()
	var expired []string
	for id, job := range s.jobs {
		if job.record.FinishedAt != nil && job.record.FinishedAt.Before(cutoff) {
			expired = append(expired, job.path)
			delete(s.jobs, id)
		}
	}
	s.mu.Unlock()

	for _, name := range expired {
		if name == "" {
			continue
		}
		if err := s.storage.Remove(name); err != nil {
			s.logger.Warn("export cleanup remove failed", zap.String("path", name), zap.Error(err))
		}
	}
	if purged, err := s.storage.PurgeBefore(cutoff); err != nil {
		s.logger.Warn("export storage purge failed", zap.Error(err))
	} else if len(purged) > 0 {
		s.logger.Debug("export files purged", zap.Int("count", len(purged)))
	}
	return len(expired)
}

func (s *ExportService) retryable(job jobs.Job, err error) error {
	msg := err.Error()
	s.update(job.ID, func(j *exportJob) {
		j.record.Status = models.ExportStatusQueued
		j.record.ErrorMessage = &msg
	})
	return err
}

func (s *ExportService) fail(id string, err error) {
	msg := err.Error()
	finished := s.now().UTC()
	var format models.ExportFormat
	s.update(id, func(j *exportJob) {
		format = j.record.Format
		j.record.Status = models.ExportStatusFailed
		j.record.ErrorMessage = &msg
		j.record.FinishedAt = &finished
	})
	s.metrics.RecordExportJob(string(format), "failed")
	s.logger.Warn("export failed", zap.String("export_id", id), zap.Error(err))
}

func (s *ExportService) update(id string, fn func(*exportJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		fn(job)
	}
}

func (s *ExportService) snapshot(id string) (*models.PaperExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Export not found")
	}
	out := job.record
	if out.ResultURL != nil {
		url := *out.ResultURL
		out.ResultURL = &url
	}
	if out.ErrorMessage != nil {
		msg := *out.ErrorMessage
		out.ErrorMessage = &msg
	}
	if out.FinishedAt != nil {
		at := *out.FinishedAt
		out.FinishedAt = &at
	}
	return &out, nil
}

func toExportPaper(p *models.PaperWithQuestions) export.Paper {
	out := export.Paper{Title: p.Title, CreatedAt: p.CreatedAt, Items: make([]export.Item, len(p.Questions))}
	if p.Description != nil {
		out.Description = *p.Description
	}
	for i, q := range p.Questions {
		out.Items[i] = export.Item{
			Number:     i + 1,
			QuestionID: q.ID,
			Content:    q.Content,
			Options:    append([]string(nil), q.Options...),
			Answer:     q.CorrectAnswer,
			AnswerText: q.CorrectOption(),
			HasDiagram: q.HasDiagram,
		}
	}
	return out
}
