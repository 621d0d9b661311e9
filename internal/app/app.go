package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quicky-ai/quicky-core/internal/config"
	"github.com/quicky-ai/quicky-core/internal/database"
	"github.com/quicky-ai/quicky-core/internal/middleware"
	"github.com/quicky-ai/quicky-core/internal/modules/content/extractor"
	"github.com/quicky-ai/quicky-core/internal/modules/processing/summarizer"
	"github.com/quicky-ai/quicky-core/internal/modules/storage/extractcache"
	pkgcron "github.com/quicky-ai/quicky-core/internal/pkg/cron"
	"github.com/quicky-ai/quicky-core/internal/pkg/jwt"
	pkgredis "github.com/quicky-ai/quicky-core/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg       *config.AppConfig
	router    *gin.Engine
	db        *gorm.DB
	redis     *pkgredis.Client
	counter   middleware.CounterStore
	signer    *jwt.Signer
	cache     *extractcache.Store
	extractor *extractor.Service
	generator *summarizer.Summarizer
	logger    *zap.Logger
	sched     *pkgcron.Scheduler
	cancel    context.CancelFunc
}

// New initializes the application: config → DB → Redis → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	a := &App{cfg: cfg, db: db, logger: logger}
	if err := a.initServices(); err != nil {
		a.closeStores()
		return nil, err
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else if cfg.IsTesting() {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(newCORS(cfg.AllowedOrigins))
	a.router = router

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sched = pkgcron.New(logger.Named("cron"))
	registerCronJobs(a.sched, a.cache, cfg.UploadDir(), logger.Named("cron"))
	if !cfg.IsTesting() {
		a.sched.Start(ctx)
	}

	a.registerRoutes()
	return a, nil
}

func (a *App) initServices() error {
	cfg := a.cfg

	if cfg.Redis.Enable {
		rc, err := pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		a.redis = rc
		a.counter = middleware.NewRedisCounter(rc)
	} else {
		a.counter = middleware.NewMemoryCounter()
	}

	a.signer = jwt.New(cfg.JWTSecret, 0)
	if a.signer.UsesDevSecret() && !cfg.IsTesting() {
		a.logger.Warn("secret_key is empty, using built-in development secret")
	}

	var cache extractor.CacheStore
	if cfg.Cache.Enable {
		a.cache = extractcache.New(a.db, cfg.Cache.ExtractionTTL)
		cache = a.cache
	}
	client := &http.Client{Timeout: cfg.Extractor.FetchTimeout}
	a.extractor = extractor.Default(extractor.Options{
		MaxChars:         cfg.Content.MaxChars,
		UserAgent:        cfg.Extractor.UserAgent,
		CaptionLanguages: cfg.Extractor.CaptionLanguages,
	}, client, cache, a.logger.Named("extractor"))

	var completer summarizer.Completer
	if cfg.AI.Enable {
		pc, err := summarizer.NewProviderCompleter(cfg.AI.Provider)
		if err != nil {
			return fmt.Errorf("ai provider: %w", err)
		}
		completer = pc
	}
	a.generator = summarizer.New(completer, a.logger.Named("summarizer"))
	a.logger.Info("summarizer ready", zap.Stringer("generator", a.generator))
	return nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and releases the stores.
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.sched != nil {
		a.sched.Wait()
	}
	a.closeStores()
}

func (a *App) closeStores() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		database.Close(a.db)
	}
}
