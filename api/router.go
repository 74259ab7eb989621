package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/focusmode/api/handler"
	"github.com/use-agent/focusmode/api/middleware"
	"github.com/use-agent/focusmode/config"
	"github.com/use-agent/focusmode/pipeline"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestLogger → CORS
//	API:     Auth (if enabled) → RateLimit
//
// Index and health stay outside auth so monitoring probes always work.
// ctx bounds background work such as rate-limiter cleanup.
func NewRouter(ctx context.Context, svc *pipeline.Service, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/", handler.Index())
	r.GET("/health", handler.Health(svc.Simplifier().ProviderName(), startTime))

	protected := r.Group("/api")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	protected.POST("/simplify", handler.Simplify(svc))
	protected.POST("/extract", handler.Extract(svc))

	// Preflight never reaches the group middleware: CORS answers it first.
	protected.OPTIONS("/simplify", func(c *gin.Context) {})
	protected.OPTIONS("/extract", func(c *gin.Context) {})

	return r
}
