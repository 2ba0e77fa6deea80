package app

import (
	apphttp "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/observability"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                   log,
		ServiceName:           cfg.ServiceName,
		AllowedOrigins:        cfg.AllowedOrigins,
		Metrics:               metrics,
		AuthMiddleware:        middleware.Auth,
		ContentVersionHandler: handlers.ContentVersion,
		HealthHandler:         handlers.Health,
	})
}
