package testutil

import (
	"context"
	"sync"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
)

// InjectedTxRunner is a test helper for aggregate integration tests.
// With Inner set it wraps a real runner, so an injected commit failure makes
// the real transaction roll back. Without Inner it runs fn with no DB at all.
type InjectedTxRunner struct {
	mu sync.Mutex

	Inner aggregates.TxRunner

	FailBegin  error
	FailCommit error
	// FailFirstN makes the first N attempts fail with FailWith after the body ran.
	FailFirstN int
	FailWith   error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	attempt := r.BeginCalls
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	if attempt <= r.FailFirstN && r.FailWith != nil {
		failCommit = r.FailWith
	}
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}

	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}

func (r *InjectedTxRunner) Counts() (begin, commit, rollback int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.BeginCalls, r.CommitCalls, r.RollbackCalls
}
