// Package cooperative implements the COOPERATIVE execution backend: the
// handler runs inline on the calling goroutine (the Job's own goroutine),
// rather than being handed off to a pool, so it competes for CPU the same
// way the rest of that Job's work does.
package cooperative

import (
	"context"
	"fmt"
	"time"

	"github.com/orsinium-labs/jockey/api/execution"
	"github.com/orsinium-labs/jockey/jockeyerrors"
)

// Backend is the cooperative execution.Dispatcher. It has no pool to
// start or stop; Start and Stop are no-ops.
type Backend[P any, R any] struct{}

// New returns a ready-to-use cooperative backend.
func New[P any, R any]() *Backend[P, R] { return &Backend[P, R]{} }

// Start is a no-op; the cooperative backend owns no resources.
func (b *Backend[P, R]) Start() error { return nil }

// Stop is a no-op; the cooperative backend owns no resources.
func (b *Backend[P, R]) Stop(time.Duration) error { return nil }

// Dispatch invokes fn inline and returns an already-resolved Handle. A
// panic in fn is recovered and surfaced as a HandlerErrorf, the same as a
// returned error, so one handler can never take down the orchestration
// goroutine.
func (b *Backend[P, R]) Dispatch(ctx context.Context, fn func(context.Context, P) (R, error), payload P) execution.Handle[R] {
	res, err := b.run(ctx, fn, payload)
	return resolved[R]{val: res, err: err}
}

func (b *Backend[P, R]) run(ctx context.Context, fn func(context.Context, P) (R, error), payload P) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = jockeyerrors.HandlerErrorf(fmt.Errorf("%v", r), "cooperative handler panicked")
		}
	}()
	return fn(ctx, payload)
}

type resolved[R any] struct {
	val R
	err error
}

func (r resolved[R]) Wait(ctx context.Context) (R, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, err
	}
	return r.val, r.err
}
