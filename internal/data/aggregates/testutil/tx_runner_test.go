package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
)

func TestInjectedTxRunner_CommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if b, c, rb := r.Counts(); b != 1 || c != 1 || rb != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", b, c, rb)
	}
}

func TestInjectedTxRunner_RollbackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body err, got %v", err)
	}
	if b, c, rb := r.Counts(); b != 1 || c != 0 || rb != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", b, c, rb)
	}
}

func TestInjectedTxRunner_FailCommitTriggersRollback(t *testing.T) {
	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{FailCommit: commitErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return nil
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if b, c, rb := r.Counts(); b != 1 || c != 0 || rb != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", b, c, rb)
	}
}

func TestInjectedTxRunner_FailFirstN(t *testing.T) {
	transient := errors.New("transient")
	r := &InjectedTxRunner{FailFirstN: 2, FailWith: transient}
	for i := 1; i <= 3; i++ {
		err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil })
		if i <= 2 && !errors.Is(err, transient) {
			t.Fatalf("attempt %d: expected transient err, got %v", i, err)
		}
		if i == 3 && err != nil {
			t.Fatalf("attempt 3: unexpected err %v", err)
		}
	}
	if b, c, rb := r.Counts(); b != 3 || c != 1 || rb != 2 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", b, c, rb)
	}
}

type innerRunner struct{ calls int }

func (r *innerRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.calls++
	return fn(dbctx.Context{Ctx: ctx})
}

func TestInjectedTxRunner_WrapsInner(t *testing.T) {
	inner := &innerRunner{}
	r := &InjectedTxRunner{Inner: inner}
	if err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected inner runner to be used, calls=%d", inner.calls)
	}
}
