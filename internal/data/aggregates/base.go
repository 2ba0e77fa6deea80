package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"

	domainagg "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
	Locker EntityLocker
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Locker == nil {
		d.Locker = NewLocalEntityLocker()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// RetryPolicy bounds how often a write transaction is re-run after a
// retryable failure. Delays grow exponentially from BaseDelay up to MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

const (
	DefaultRetryMaxAttempts = 5
	DefaultRetryBaseDelay   = 10 * time.Millisecond
	DefaultRetryMaxDelay    = 250 * time.Millisecond
)

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultRetryMaxAttempts
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	} else if p.BaseDelay == 0 {
		p.BaseDelay = DefaultRetryBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultRetryMaxDelay
	}
	return p
}

// retryJitter is the randomization factor applied to every retry delay.
const retryJitter = 0.2

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: retryJitter,
		Multiplier:          2,
		MaxInterval:         p.MaxDelay,
	}
	b.Reset()
	return b
}

// retrySpec tells executeWriteWithRetry which raw transaction errors are worth
// another attempt and how to report running out of attempts.
type retrySpec struct {
	Policy      RetryPolicy
	ShouldRetry func(err error) bool
	Exhausted   func(attempts int, last error) error
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

// executeWriteWithRetry runs fn in a fresh transaction per attempt. Every
// attempt starts from scratch, so fn must recompute anything it read.
func executeWriteWithRetry(ctx context.Context, deps BaseDeps, op string, spec retrySpec, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	policy := spec.Policy.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	var (
		raw      error
		attempts int
	)
	delays := policy.backOff()
	for attempts = 1; ; attempts++ {
		raw = deps.Runner.InTx(ctx, fn)
		if raw == nil || spec.ShouldRetry == nil || !spec.ShouldRetry(raw) {
			break
		}
		if attempts >= policy.MaxAttempts {
			if spec.Exhausted != nil {
				raw = spec.Exhausted(attempts, raw)
			}
			break
		}
		deps.Hooks.IncRetry(op)
		wait := delays.NextBackOff()
		deps.Log.Debug("aggregate write retry", "op", op, "attempt", attempts, "wait", wait, "error", raw)
		if err := sleepCtx(ctx, wait); err != nil {
			raw = err
			break
		}
	}
	mapped := MapError(op, raw)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if attempts > 1 {
			deps.Log.Warn("aggregate write failed after retries", "op", op, "attempts", attempts, "error", mapped)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withEntityLock holds the per-entity writer lock around fn.
func withEntityLock(ctx context.Context, deps BaseDeps, op, key string, fn func() error) error {
	deps = deps.withDefaults()
	unlock, err := deps.Locker.Lock(ctx, key)
	if err != nil {
		return MapError(op, err)
	}
	defer unlock()
	return fn()
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
