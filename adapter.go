package jockey

import "context"

// Adapter is the contract an inbound message implements. One Adapter may
// produce many Jobs (one per matching Handler); each Job delivers its own
// independent notification, so an Adapter must be safe to notify
// concurrently from multiple goroutines.
type Adapter[K comparable, P any, R any] interface {
	// Keys returns the routing keys this message targets. Zero, one, or
	// many keys may be returned. If Keys returns a non-nil error, Execute
	// propagates it to its caller and creates no Jobs.
	Keys(ctx context.Context) ([]K, error)

	// Payload materializes this message's payload. It is called at most
	// once per (message, handler) pair, after that pair has been admitted.
	Payload(ctx context.Context) (P, error)

	// OnSuccess is invoked exactly once if the handler returns a result.
	OnSuccess(ctx context.Context, result R)

	// OnFailure is invoked exactly once if the handler returns an error,
	// times out, or cannot be dispatched.
	OnFailure(ctx context.Context, err error)

	// OnCancel is invoked exactly once if the Job is canceled before it
	// produces a result, whether by executor shutdown or by the caller's
	// context being done while the Job waited for admission.
	OnCancel(ctx context.Context, reason error)
}
