package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

// VersionEventBus fans version-history events out to every instance over
// Redis pub/sub.
type VersionEventBus interface {
	Publish(ctx context.Context, ev versioning.Event) error
	StartForwarder(ctx context.Context, onEvent func(ev versioning.Event)) error
	Close() error
}

type versionEventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewVersionEventBus(log *logger.Logger, rdb *goredis.Client, channel string) (VersionEventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		channel = "content_versions"
	}
	return &versionEventBus{
		log:     log.With("service", "RedisVersionEventBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *versionEventBus) Publish(ctx context.Context, ev versioning.Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis version event bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *versionEventBus) StartForwarder(ctx context.Context, onEvent func(ev versioning.Event)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis version event bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var ev versioning.Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad version event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}

// Close is a no-op; the shared client is owned by the app.
func (b *versionEventBus) Close() error {
	return nil
}
