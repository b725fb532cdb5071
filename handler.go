package jockey

import (
	"context"
	"time"

	"github.com/orsinium-labs/jockey/api/execution"
)

// Backend selects which execution strategy a handler runs under.
type Backend = execution.Backend

// The three supported execution backends, re-exported from
// api/execution so callers never need to import it directly.
const (
	Cooperative = execution.Cooperative
	Thread      = execution.Thread
	Process     = execution.Process
)

// Handler is an immutable record produced by Registry.Add: a handler
// function paired with the execution backend, priority, concurrency cap,
// and timeout it runs under. Handler is generic over the payload and
// result types shared by every handler on an Executor.
type Handler[P any, R any] struct {
	// Name identifies this handler to the PROCESS backend, which dispatches
	// by name rather than by function value, since Go has no way to
	// serialize a closure across a process boundary. Unused for
	// COOPERATIVE and THREAD handlers.
	Name string

	// Fn is the handler body.
	Fn func(context.Context, P) (R, error)

	// Backend is the execution strategy. Defaults to Cooperative.
	Backend Backend

	// Priority is the admission priority; higher values are admitted
	// sooner when capacity is contended. Defaults to 0.
	Priority int

	// MaxConcurrent caps simultaneous executions of this handler. 0 means
	// unbounded.
	MaxConcurrent int

	// Timeout bounds one execution of this handler. 0 means unbounded.
	Timeout time.Duration
}

// Option configures a Handler at registration time.
type Option[P any, R any] func(*Handler[P, R])

// WithBackend sets the handler's execution backend.
func WithBackend[P any, R any](b Backend) Option[P, R] {
	return func(h *Handler[P, R]) { h.Backend = b }
}

// WithPriority sets the handler's admission priority.
func WithPriority[P any, R any](priority int) Option[P, R] {
	return func(h *Handler[P, R]) { h.Priority = priority }
}

// WithMaxConcurrent caps simultaneous executions of this handler.
func WithMaxConcurrent[P any, R any](n int) Option[P, R] {
	return func(h *Handler[P, R]) { h.MaxConcurrent = n }
}

// WithTimeout bounds one execution of this handler.
func WithTimeout[P any, R any](d time.Duration) Option[P, R] {
	return func(h *Handler[P, R]) { h.Timeout = d }
}

// WithName sets the name a PROCESS handler is dispatched under. Required
// when paired with WithBackend(Process); see process.RegisterWorkerFunc.
func WithName[P any, R any](name string) Option[P, R] {
	return func(h *Handler[P, R]) { h.Name = name }
}
