package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http/handlers"
	httpMW "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http/middleware"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/observability"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware        *httpMW.AuthMiddleware
	ContentVersionHandler *httpH.ContentVersionHandler
	HealthHandler         *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Content versioning
		if h := cfg.ContentVersionHandler; h != nil {
			content := protected.Group("/content/:entityType/:id")
			content.POST("/versions", h.CreateVersion)
			content.GET("/versions", h.GetHistory)
			content.GET("/versions/:version", h.GetVersion)
			content.POST("/versions/:version/rollback", h.Rollback)
			content.GET("/compare", h.Compare)
			content.POST("/cleanup", h.Cleanup)
		}
	}

	return r
}
