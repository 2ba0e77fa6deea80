package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/clients/redis"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type Clients struct {
	Redis      *goredis.Client
	VersionBus redis.VersionEventBus
	Locker     aggregates.EntityLocker
}

// wireClients connects Redis when REDIS_ADDR is set. Without it the service
// runs single-instance: an in-process entity lock and no event fan-out.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set; using in-process entity locks")
		return Clients{Locker: aggregates.NewLocalEntityLocker()}, nil
	}

	rdb, err := redis.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	bus, err := redis.NewVersionEventBus(log, rdb, cfg.EventsChannel)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis version bus: %w", err)
	}
	return Clients{
		Redis:      rdb,
		VersionBus: bus,
		Locker:     redis.NewEntityLock(rdb, log, "edu_platforma:lock:", cfg.LockTTL),
	}, nil
}

func (c Clients) Close() {
	if c.VersionBus != nil {
		_ = c.VersionBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
