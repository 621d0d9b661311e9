package app

import (
	"github.com/gin-gonic/gin"

	"github.com/quicky-ai/quicky-core/internal/middleware"
	"github.com/quicky-ai/quicky-core/internal/modules/auth/user"
	"github.com/quicky-ai/quicky-core/internal/modules/content/summary"
	"github.com/quicky-ai/quicky-core/internal/modules/storage/upload"
	"github.com/quicky-ai/quicky-core/internal/modules/system/health"
	"github.com/quicky-ai/quicky-core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})

	api := r.Group("/api")
	if cfg.RateLimit.Enable {
		api.Use(middleware.RateLimit(a.counter, a.logger,
			middleware.PerDay("global_day", cfg.RateLimit.PerDay),
			middleware.PerHour("global_hour", cfg.RateLimit.PerHour),
		))
	}

	authMW := middleware.Auth(a.signer)
	optionalAuth := middleware.OptionalAuth(a.signer)

	summarizeMW := []gin.HandlerFunc{optionalAuth}
	if cfg.RateLimit.Enable {
		summarizeMW = append(summarizeMW, middleware.RateLimit(a.counter, a.logger,
			middleware.PerMinute("summarize", cfg.RateLimit.PerMinute),
		))
	}

	summarySvc := summary.NewService(a.db, a.extractor, a.generator, cfg.Content, a.logger.Named("summary"))
	summary.NewHandler(summarySvc).RegisterRoutes(api, summarizeMW...)

	upload.NewHandler(a.extractor, cfg.UploadDir(), cfg.UploadMaxBytes(), a.logger.Named("upload")).
		RegisterRoutes(api)

	user.NewHandler(user.NewService(a.db), a.signer).RegisterRoutes(api, authMW)

	health.RegisterRoutes(api, a.db, a.sched, authMW)
}
