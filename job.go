package jockey

// JobState is the lifecycle state of one (Adapter, Handler) pair.
// State advances monotonically: PENDING -> ADMITTED -> RUNNING and then
// to exactly one of SUCCEEDED, FAILED, or CANCELED. CANCELED may also be
// reached directly from PENDING or ADMITTED.
type JobState int32

const (
	// JobPending means the Job has been created but has not yet acquired
	// its capacity gates.
	JobPending JobState = iota
	// JobAdmitted means every required gate permit is held.
	JobAdmitted
	// JobRunning means the backend invocation has started.
	JobRunning
	// JobSucceeded is terminal: the handler returned a result.
	JobSucceeded
	// JobFailed is terminal: the handler returned an error, timed out, or
	// could not be dispatched.
	JobFailed
	// JobCanceled is terminal: external cancellation or shutdown ended the
	// Job before it produced a result.
	JobCanceled
)

// String renders the state's name for logging and introspection.
func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobAdmitted:
		return "admitted"
	case JobRunning:
		return "running"
	case JobSucceeded:
		return "succeeded"
	case JobFailed:
		return "failed"
	case JobCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of SUCCEEDED, FAILED, or CANCELED.
func (s JobState) Terminal() bool {
	return s == JobSucceeded || s == JobFailed || s == JobCanceled
}
