package jockeyerrors

import "fmt"

// jockeyError is the concrete type behind every error this package
// constructs. It is unexported so callers are steered toward ErrorCode and
// the Is* helpers rather than type assertions.
type jockeyError struct {
	Code    Code
	Message string
	cause   error
}

func (e *jockeyError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *jockeyError) Unwrap() error { return e.cause }

func newf(code Code, cause error, format string, args ...interface{}) error {
	return &jockeyError{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

// IsJockeyError reports whether err is a non-nil error from this package.
func IsJockeyError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*jockeyError)
	return ok
}

// ErrorCode returns the Code for err, or CodeOK if err is nil or not a
// jockey error.
func ErrorCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	je, ok := err.(*jockeyError)
	if !ok {
		return CodeOK
	}
	return je.Code
}

// HandlerErrorf wraps an error raised from within a handler body.
func HandlerErrorf(cause error, format string, args ...interface{}) error {
	return newf(CodeHandler, cause, format, args...)
}

// TimeoutErrorf reports a handler that exceeded its configured timeout.
func TimeoutErrorf(format string, args ...interface{}) error {
	return newf(CodeTimeout, nil, format, args...)
}

// CancellationErrorf reports a job ended by external cancellation or
// executor shutdown.
func CancellationErrorf(format string, args ...interface{}) error {
	return newf(CodeCancelled, nil, format, args...)
}

// BackendErrorf reports a dispatch failure before a handler ran, e.g. a
// non-serializable payload for the PROCESS backend or a closed pool.
func BackendErrorf(cause error, format string, args ...interface{}) error {
	return newf(CodeBackend, cause, format, args...)
}

// AlreadyRunningErrorf reports a registry mutation attempted after an
// executor built from it has started.
func AlreadyRunningErrorf(format string, args ...interface{}) error {
	return newf(CodeAlreadyRunning, nil, format, args...)
}

// NotifyErrorf wraps an error raised from within a notification callback.
// It is never returned to a caller of Execute; it is only ever forwarded to
// Config.OnNotifyError.
func NotifyErrorf(cause error, format string, args ...interface{}) error {
	return newf(CodeNotify, cause, format, args...)
}

// IsTimeout reports whether err is a CodeTimeout error.
func IsTimeout(err error) bool { return ErrorCode(err) == CodeTimeout }

// IsCancelled reports whether err is a CodeCancelled error.
func IsCancelled(err error) bool { return ErrorCode(err) == CodeCancelled }

// IsBackend reports whether err is a CodeBackend error.
func IsBackend(err error) bool { return ErrorCode(err) == CodeBackend }

// IsAlreadyRunning reports whether err is a CodeAlreadyRunning error.
func IsAlreadyRunning(err error) bool { return ErrorCode(err) == CodeAlreadyRunning }
