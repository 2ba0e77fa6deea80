package app

import (
	"gorm.io/gorm"

	httpH "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http/handlers"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	ContentVersion *httpH.ContentVersionHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(db),
		ContentVersion: httpH.NewContentVersionHandler(services.ContentVersions),
	}
}
