package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tenderiq/core/internal/config"
	"github.com/tenderiq/core/internal/database"
	"github.com/tenderiq/core/internal/middleware"
	"github.com/tenderiq/core/internal/modules/analysis"
	"github.com/tenderiq/core/internal/modules/analysis/events"
	"github.com/tenderiq/core/internal/modules/documents"
	"github.com/tenderiq/core/internal/modules/extraction"
	"github.com/tenderiq/core/internal/modules/intelligence"
	pkgai "github.com/tenderiq/core/internal/pkg/ai"
	"github.com/tenderiq/core/internal/pkg/jwt"
	pkgredis "github.com/tenderiq/core/internal/pkg/redis"
	"github.com/tenderiq/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	logger *zap.Logger
}

// New initializes the application: config → DB → Redis → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if cfg.JWTSecret != "" {
		jwt.SetSecret(cfg.JWTSecret)
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(buildCORSConfig(cfg)))

	source, err := documents.NewSource(context.Background(), cfg.Documents)
	if err != nil {
		return nil, fmt.Errorf("document source: %w", err)
	}

	provider := pkgai.SelectProvider(cfg.AI)
	if provider == nil {
		logger.Info("no AI provider configured, analysis falls back to rule-based extraction")
	}

	parser := extraction.NewParser(db, extraction.NewOCRProvider(cfg.Extraction, logger), logger)
	store := analysis.NewGormStore(db)
	bus := events.NewRedisBus(rc)
	tasks := taskqueue.NewService(rc)

	pipeline := analysis.NewPipeline(analysis.PipelineOptions{
		Store:    store,
		Bus:      bus,
		Source:   source,
		Parser:   parser,
		Intel:    intelligence.NewService(provider, logger),
		Company:  cfg.Company,
		Pipeline: cfg.Pipeline,
		Logger:   logger,
	})
	orchestrator := analysis.NewOrchestrator(store, pipeline, tasks, logger)
	handler := analysis.NewHandler(orchestrator, bus, parser, logger)

	app := &App{cfg: cfg, router: router, db: db, redis: rc, logger: logger}
	app.registerRoutes(handler)

	return app, nil
}

func buildCORSConfig(cfg *config.AppConfig) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsConfig
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases shared connections.
func (a *App) Shutdown() {
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
}
