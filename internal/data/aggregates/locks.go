package aggregates

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

// EntityLocker serializes writers of one entity's version history. Lock
// blocks until the key is free or ctx is done; the returned func releases it.
type EntityLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EntityLockKey is the lock key shared by every writer of an entity's history.
func EntityLockKey(entityType versioning.EntityType, entityID uuid.UUID) string {
	return fmt.Sprintf("content_version:%s:%s", entityType, entityID)
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

type localEntityLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

// NewLocalEntityLocker returns an in-process keyed lock. Slots are dropped once
// no goroutine holds or waits on them.
func NewLocalEntityLocker() EntityLocker {
	return &localEntityLocker{slots: map[string]*lockSlot{}}
}

func (l *localEntityLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.release(key, slot)
		})
	}, nil
}

func (l *localEntityLocker) release(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}
