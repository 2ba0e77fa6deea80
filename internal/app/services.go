package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/aggregates"
	domainagg "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/observability"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/services"
)

type Services struct {
	ContentVersionAggregate domainagg.ContentVersionAggregate
	ContentVersions         services.ContentVersionService
	Sweeper                 *services.RetentionSweeper
	Tokens                  services.TokenVerifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	agg := aggregates.NewContentVersionAggregate(aggregates.ContentVersionAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Hooks:  aggregates.NewObservabilityHooks(metrics),
			Locker: c.Locker,
		},
		Entities: r.ContentEntity,
		Versions: r.ContentVersion,
		Retry:    cfg.Retry,
	})

	var events services.VersionEventPublisher
	if c.VersionBus != nil {
		events = c.VersionBus
	}
	versions := services.NewContentVersionService(log, agg, r.ContentVersion, cfg.Retention, metrics, events)
	sweeper := services.NewRetentionSweeper(log, r.ContentVersion, versions, cfg.Retention, cfg.SweepConcurrency, metrics)

	var tokens services.TokenVerifier
	if cfg.JWTSecretKey != "" {
		t, err := services.NewTokenVerifier(log, cfg.JWTSecretKey, cfg.JWTIssuer)
		if err != nil {
			return Services{}, fmt.Errorf("init token verifier: %w", err)
		}
		tokens = t
	}

	return Services{
		ContentVersionAggregate: agg,
		ContentVersions:         versions,
		Sweeper:                 sweeper,
		Tokens:                  tokens,
	}, nil
}
