package jockey

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/orsinium-labs/jockey/jockeyerrors"
)

// Registry maps routing keys to the handlers registered under them. A
// single key may carry multiple handlers; all are scheduled (fan-out) when
// a message routes to that key. Registration order is preserved and
// lookup is deterministic.
//
// A Registry is safe for concurrent Add/Get calls, but Add must not be
// called once an Executor built from this Registry has started — doing so
// returns an AlreadyRunning error rather than panicking, so callers can
// treat it as an ordinary setup-time mistake.
type Registry[K comparable, P any, R any] struct {
	mu      sync.RWMutex
	byKey   map[K][]*Handler[P, R]
	running atomic.Bool
}

// NewRegistry constructs an empty Registry.
func NewRegistry[K comparable, P any, R any]() *Registry[K, P, R] {
	return &Registry[K, P, R]{byKey: make(map[K][]*Handler[P, R])}
}

// Add constructs a Handler from fn and opts and appends it under key, in
// registration order. It returns the constructed Handler so registration
// can be chained or used as a decorator at the call site.
func (r *Registry[K, P, R]) Add(key K, fn func(context.Context, P) (R, error), opts ...Option[P, R]) (*Handler[P, R], error) {
	if r.running.Load() {
		return nil, jockeyerrors.AlreadyRunningErrorf("registry mutated after an executor built from it has started")
	}

	h := &Handler[P, R]{Fn: fn, Backend: Cooperative}
	for _, opt := range opts {
		opt(h)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// running may have flipped true while we built h; re-check under the
	// write lock so Add can't race a concurrent Executor.Start.
	if r.running.Load() {
		return nil, jockeyerrors.AlreadyRunningErrorf("registry mutated after an executor built from it has started")
	}
	r.byKey[key] = append(r.byKey[key], h)
	return h, nil
}

// Get returns the handlers registered under key, in registration order,
// or an empty slice if key is unknown.
func (r *Registry[K, P, R]) Get(key K) []*Handler[P, R] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := r.byKey[key]
	out := make([]*Handler[P, R], len(handlers))
	copy(out, handlers)
	return out
}

// start marks the registry as belonging to a running Executor, rejecting
// further Add calls. Called once by Executor.Start.
func (r *Registry[K, P, R]) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running.Store(true)
}
