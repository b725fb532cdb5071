package jockey_test

import (
	"context"
	"sync"
)

// recordingAdapter is a test double implementing jockey.Adapter. It
// records every notification it receives so tests can assert exactly-once
// delivery and final outcomes.
type recordingAdapter[K comparable, P any, R any] struct {
	keys        []K
	keysErr     error
	payload     P
	payloadErr  error
	payloadFn   func(ctx context.Context) (P, error)

	mu        sync.Mutex
	successes []R
	failures  []error
	cancels   []error
}

func (a *recordingAdapter[K, P, R]) Keys(ctx context.Context) ([]K, error) {
	return a.keys, a.keysErr
}

func (a *recordingAdapter[K, P, R]) Payload(ctx context.Context) (P, error) {
	if a.payloadFn != nil {
		return a.payloadFn(ctx)
	}
	return a.payload, a.payloadErr
}

func (a *recordingAdapter[K, P, R]) OnSuccess(ctx context.Context, result R) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.successes = append(a.successes, result)
}

func (a *recordingAdapter[K, P, R]) OnFailure(ctx context.Context, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = append(a.failures, err)
}

func (a *recordingAdapter[K, P, R]) OnCancel(ctx context.Context, reason error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancels = append(a.cancels, reason)
}

func (a *recordingAdapter[K, P, R]) totalNotifications() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.successes) + len(a.failures) + len(a.cancels)
}

func (a *recordingAdapter[K, P, R]) snapshot() (successes []R, failures, cancels []error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]R{}, a.successes...), append([]error{}, a.failures...), append([]error{}, a.cancels...)
}
