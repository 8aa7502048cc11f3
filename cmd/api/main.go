package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/handler"
	"github.com/noah-isme/exam-prep-api/internal/repository"
	"github.com/noah-isme/exam-prep-api/internal/server"
	"github.com/noah-isme/exam-prep-api/internal/service"
	"github.com/noah-isme/exam-prep-api/pkg/cache"
	"github.com/noah-isme/exam-prep-api/pkg/config"
	"github.com/noah-isme/exam-prep-api/pkg/database"
	"github.com/noah-isme/exam-prep-api/pkg/logger"
)

// @title Exam Prep API
// @version 1.0.0
// @description Question bank filtering, paper assembly, mock tests and exports
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("store init failed", zap.Error(err))
	}
	defer closeStore()

	deps := server.Deps{
		Config:  cfg,
		Store:   store,
		Checks:  map[string]handler.Pinger{},
		Metrics: service.NewMetricsService(),
		Logger:  logr,
	}
	if cfg.Cache.Enabled {
		client, redisErr := cache.NewRedis(ctx, cfg.Redis)
		if redisErr != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(redisErr))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
			deps.Cache = cacheRepo
			deps.Checks["redis"] = cacheRepo
		}
	}

	app, err := server.New(deps)
	if err != nil {
		logr.Fatal("app init failed", zap.Error(err))
	}
	app.Start(ctx)
	defer app.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore selects the persistence driver. The postgres driver creates and seeds
// the schema when auto-migrate is on.
func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (repository.Store, func(), error) {
	if cfg.StoreDriver != config.StorePostgres {
		logr.Info("using in-memory store with sample catalogue")
		return repository.NewSeededMemoryStore(), func() {}, nil
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return repository.NewPostgresStore(db), func() { _ = db.Close() }, nil
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	if err := repository.EnsureSchema(ctx, db); err != nil {
		return err
	}
	return repository.SeedCatalogue(ctx, db, repository.DefaultSeed())
}
