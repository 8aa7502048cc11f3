package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/handler"
	"github.com/noah-isme/exam-prep-api/internal/repository"
	"github.com/noah-isme/exam-prep-api/internal/service"
	"github.com/noah-isme/exam-prep-api/pkg/config"
	"github.com/noah-isme/exam-prep-api/pkg/jobs"
	"github.com/noah-isme/exam-prep-api/pkg/storage"
)

// Deps are the infrastructure pieces the bootstrap resolved.
type Deps struct {
	Config *config.Config
	Store  repository.Store
	// Cache is optional; nil disables caching regardless of configuration.
	Cache   service.CacheRepository
	Checks  map[string]handler.Pinger
	Metrics *service.MetricsService
	Logger  *zap.Logger
}

// App is the assembled service: router plus the background export machinery.
type App struct {
	Router  *gin.Engine
	Exports *service.ExportService

	queue  *jobs.Queue
	cancel context.CancelFunc
}

// New wires services and handlers over deps.
func New(deps Deps) (*App, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = service.NewMetricsService()
	}
	validate := validator.New()

	cache := service.NewCacheService(deps.Cache, metrics, cfg.Cache.TTL, logger, cfg.Cache.Enabled)
	questions := service.NewQuestionService(deps.Store, cache, metrics, validate, logger, cfg.Pagination.DefaultLimit)
	reference := service.NewReferenceService(deps.Store, cache, logger)
	papers := service.NewPaperService(deps.Store, metrics, validate, logger)
	attempts := service.NewAttemptService(deps.Store, papers, metrics, logger)
	users := service.NewUserService(deps.Store, validate, logger, cfg.Users.BcryptCost)

	checks := map[string]handler.Pinger{"store": deps.Store}
	for name, check := range deps.Checks {
		checks[name] = check
	}

	app := &App{}
	handlers := Handlers{
		Questions: handler.NewQuestionHandler(questions, cfg.Imports.MaxBytes),
		Reference: handler.NewReferenceHandler(reference),
		Papers:    handler.NewPaperHandler(papers),
		Attempts:  handler.NewAttemptHandler(attempts),
		Users:     handler.NewUserHandler(users),
		Metrics:   handler.NewMetricsHandler(metrics, checks),
	}

	if cfg.Exports.Enabled {
		disk, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("init export storage: %w", err)
		}
		signer := storage.NewSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		app.Exports = service.NewExportService(papers, disk, signer, metrics, logger, service.ExportConfig{
			APIPrefix:       cfg.APIPrefix,
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
		})
		app.queue = jobs.NewQueue("exports", app.Exports.Handle, jobs.Config{
			Workers:    cfg.Exports.Workers,
			MaxRetries: cfg.Exports.Retries,
			RetryDelay: 2 * time.Second,
			Logger:     logger,
			OnGiveUp:   app.Exports.GiveUp,
		})
		app.Exports.SetQueue(app.queue)
		handlers.Exports = handler.NewExportHandler(app.Exports)
	}

	app.Router = NewRouter(Options{
		Env:            cfg.Env,
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
		Metrics:        metrics,
	}, handlers)
	return app, nil
}

// Start launches the export workers and the cleanup ticker.
func (a *App) Start(ctx context.Context) {
	if a.queue == nil {
		return
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.queue.Start(ctx)
	a.Exports.StartCleanup(ctx)
}

// Stop halts background work and waits for in-flight exports.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.queue != nil {
		a.queue.Stop()
	}
}
