// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/exam-prep-api/api/swagger"
	"github.com/noah-isme/exam-prep-api/internal/handler"
	"github.com/noah-isme/exam-prep-api/internal/middleware"
	"github.com/noah-isme/exam-prep-api/internal/service"
	"github.com/noah-isme/exam-prep-api/pkg/config"
	"github.com/noah-isme/exam-prep-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/exam-prep-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/exam-prep-api/pkg/middleware/requestid"
)

// Options carries the router-level settings.
type Options struct {
	Env            string
	APIPrefix      string
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *service.MetricsService
}

// Handlers groups the HTTP handlers mounted by NewRouter. Exports may be nil
// when exports are disabled.
type Handlers struct {
	Questions *handler.QuestionHandler
	Reference *handler.ReferenceHandler
	Papers    *handler.PaperHandler
	Attempts  *handler.AttemptHandler
	Exports   *handler.ExportHandler
	Users     *handler.UserHandler
	Metrics   *handler.MetricsHandler
}

// NewRouter builds the gin engine.
func NewRouter(opts Options, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if opts.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)

	questions := api.Group("/questions")
	questions.GET("", h.Questions.List)
	questions.GET("/:id", h.Questions.Get)
	questions.POST("/import", h.Questions.Import)
	questions.GET("/import/template", h.Questions.Template)

	api.GET("/subjects", h.Reference.Subjects)
	api.GET("/chapters", h.Reference.Chapters)
	api.GET("/topics", h.Reference.Topics)
	api.GET("/question-types", h.Reference.QuestionTypes)
	api.GET("/difficulty-levels", h.Reference.DifficultyLevels)

	papers := api.Group("/papers")
	papers.POST("", h.Papers.Create)
	papers.GET("", h.Papers.List)
	papers.POST("/generate", h.Papers.Generate)
	papers.GET("/:id", h.Papers.Get)
	papers.POST("/:id/attempts", h.Attempts.Submit)
	api.GET("/attempts", h.Attempts.List)

	if h.Exports != nil {
		papers.POST("/:id/exports", h.Exports.Request)
		api.GET("/exports/:id", h.Exports.Status)
		api.GET("/downloads/:token", h.Exports.Download)
	}

	users := api.Group("/users")
	users.POST("", h.Users.Create)
	users.POST("/login", h.Users.Login)
	users.GET("/:id", h.Users.Get)

	return r
}
