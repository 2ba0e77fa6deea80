package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

const (
	defaultLockTTL  = 30 * time.Second
	lockPollBase    = 5 * time.Millisecond
	lockPollMax     = 200 * time.Millisecond
	lockReleaseWait = 2 * time.Second
)

var errLockHeld = errors.New("entity lock held")

// releaseScript deletes the key only while it still holds our token, so an
// expired holder never frees a lock someone else acquired since.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// EntityLock is a cross-process writer lock keyed per entity. Each holder
// stores a random token under the key with a TTL.
type EntityLock struct {
	rdb    goredis.UniversalClient
	log    *logger.Logger
	prefix string
	ttl    time.Duration
}

func NewEntityLock(rdb goredis.UniversalClient, log *logger.Logger, prefix string, ttl time.Duration) *EntityLock {
	if prefix == "" {
		prefix = "edu:lock:"
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &EntityLock{
		rdb:    rdb,
		log:    log.With("service", "RedisEntityLock"),
		prefix: prefix,
		ttl:    ttl,
	}
}

// Lock polls SET NX until it wins the key or ctx ends.
func (l *EntityLock) Lock(ctx context.Context, key string) (func(), error) {
	if l == nil || l.rdb == nil {
		return nil, errors.New("redis entity lock not initialized")
	}
	fullKey := l.prefix + key
	token := uuid.NewString()

	poll := &backoff.ExponentialBackOff{
		InitialInterval:     lockPollBase,
		RandomizationFactor: 0.2,
		Multiplier:          2,
		MaxInterval:         lockPollMax,
	}
	_, err := backoff.Retry(ctx, func() (bool, error) {
		ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return false, backoff.Permanent(fmt.Errorf("acquire %s: %w", fullKey, err))
		}
		if !ok {
			return false, errLockHeld
		}
		return true, nil
	}, backoff.WithBackOff(poll), backoff.WithMaxElapsedTime(0))
	if err != nil {
		return nil, err
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's ctx may already be cancelled; release on a fresh deadline.
		relCtx, cancel := context.WithTimeout(context.Background(), lockReleaseWait)
		defer cancel()
		if err := releaseScript.Run(relCtx, l.rdb, []string{fullKey}, token).Err(); err != nil {
			l.log.Warn("redis lock release failed (lock will expire)", "key", fullKey, "error", err)
		}
	}, nil
}
