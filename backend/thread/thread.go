// Package thread implements the THREAD execution backend: each call runs
// on its own goroutine, which is the idiomatic Go stand-in for "a shared
// OS thread pool" (the Go runtime multiplexes goroutines onto OS threads
// for us; the backend's job is bookkeeping and graceful drain, not thread
// management).
package thread

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/orsinium-labs/jockey/api/execution"
	"github.com/orsinium-labs/jockey/jockeyerrors"
)

// Backend is the THREAD execution.Dispatcher. Size bounds how many calls
// may be outstanding; the executor's per-backend capacity gate is expected
// to enforce this same bound before calling Dispatch, so Backend itself
// does not re-limit concurrency — it only tracks in-flight calls for a
// graceful Stop.
type Backend[P any, R any] struct {
	size    int
	wg      sync.WaitGroup
	closed  atomic.Bool
	started atomic.Bool
}

// New returns a thread backend. size is advisory: it is recorded but
// never limits or sizes anything; 0 defaults to runtime.NumCPU() by
// convention of the caller.
func New[P any, R any](size int) *Backend[P, R] {
	return &Backend[P, R]{size: size}
}

// Start marks the pool open for dispatch.
func (b *Backend[P, R]) Start() error {
	b.started.Store(true)
	return nil
}

// Stop closes the pool to new dispatches and waits up to drain for
// in-flight calls to finish. Calls still running after drain are
// abandoned: their goroutines keep running to completion, but Stop
// returns without them, and their eventual results are discarded by
// whichever Handle.Wait already gave up.
func (b *Backend[P, R]) Stop(drain time.Duration) error {
	b.closed.Store(true)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	if drain <= 0 {
		select {
		case <-done:
		default:
		}
		return nil
	}

	select {
	case <-done:
	case <-time.After(drain):
	}
	return nil
}

// Dispatch runs fn on a new goroutine and returns a Handle for its result.
func (b *Backend[P, R]) Dispatch(ctx context.Context, fn func(context.Context, P) (R, error), payload P) execution.Handle[R] {
	resultCh := make(chan result[R], 1)

	if b.closed.Load() {
		resultCh <- result[R]{err: jockeyerrors.BackendErrorf(nil, "thread pool closed")}
		return handle[R]{ch: resultCh}
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				resultCh <- result[R]{err: jockeyerrors.HandlerErrorf(fmt.Errorf("%v", r), "thread handler panicked")}
			}
		}()
		val, err := fn(ctx, payload)
		resultCh <- result[R]{val: val, err: err}
	}()

	return handle[R]{ch: resultCh}
}

type result[R any] struct {
	val R
	err error
}

type handle[R any] struct {
	ch <-chan result[R]
}

// Wait returns as soon as the goroutine finishes or ctx is done. If ctx
// finishes first, the goroutine's eventual result (sent to a buffered
// channel of size 1) is simply never read.
func (h handle[R]) Wait(ctx context.Context) (R, error) {
	select {
	case res := <-h.ch:
		return res.val, res.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
