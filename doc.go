// Package jockey is a generic asynchronous job execution engine: it
// accepts opaque messages through an Adapter, resolves each to zero or
// more registered handlers by routing key, and runs those handlers under
// strict concurrency, priority, and cancellation discipline, delivering
// exactly one terminal notification per (message, handler) pair back to
// the adapter.
//
// The three moving pieces a caller touches are a Registry (maps routing
// keys to handlers), an Adapter (the message wrapper: routing keys,
// payload, and notification callbacks), and an Executor (the scheduler
// that ties them together):
//
//	registry := jockey.NewRegistry[string, int, int]()
//	registry.Add("+", func(ctx context.Context, n int) (int, error) {
//		return n + 1, nil
//	})
//
//	executor := jockey.NewExecutor(registry, jockey.Config{})
//	err := executor.Run(func(e *jockey.Executor[string, int, int]) error {
//		return e.Execute(context.Background(), myAdapter, 0)
//	})
//
// Persistence, retries, and distributed coordination are explicitly out
// of scope; a caller that needs a retry re-enqueues from its own
// OnFailure callback.
package jockey
