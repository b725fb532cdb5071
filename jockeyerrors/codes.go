// Package jockeyerrors defines the error taxonomy shared by the executor,
// registry, and execution backends.
//
// Rather than exporting a distinct Go error type per failure kind, errors
// carry a Code the way yarpc's own error package does: callers compare
// codes (or use the Is* helpers) instead of type-asserting concrete types.
package jockeyerrors

// Code classifies a jockey error.
type Code int

const (
	// CodeOK is never actually set on an error; ErrorCode returns it for
	// nil or non-jockey errors so callers can compare without a type switch.
	CodeOK Code = iota
	// CodeHandler marks an error raised from within a handler body.
	CodeHandler
	// CodeTimeout marks a handler that exceeded its configured timeout.
	CodeTimeout
	// CodeCancelled marks a job ended by external cancellation or shutdown.
	CodeCancelled
	// CodeBackend marks a dispatch failure before the handler ran.
	CodeBackend
	// CodeAlreadyRunning marks a registry mutation attempted after start.
	CodeAlreadyRunning
	// CodeNotify marks an error raised from within a notification callback.
	CodeNotify
)

// String renders the code's name for logging.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeHandler:
		return "handler"
	case CodeTimeout:
		return "timeout"
	case CodeCancelled:
		return "cancelled"
	case CodeBackend:
		return "backend"
	case CodeAlreadyRunning:
		return "already-running"
	case CodeNotify:
		return "notify"
	default:
		return "unknown"
	}
}
