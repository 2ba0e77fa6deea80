package app

import (
	httpMW "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http/middleware"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	if services.Tokens == nil {
		return Middleware{}
	}
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Tokens),
	}
}
