// Package introspection tracks how many Jobs an Executor currently has in
// each non-terminal state, for tests and for diagnostics. Unlike a
// dispatcher's wire-exposed introspection endpoint, this snapshot is not
// exposed over any transport, since the core engine has no wire protocol
// of its own.
package introspection

import "sync"

// Snapshot is a point-in-time count of live Jobs by state.
type Snapshot struct {
	Pending   int
	Admitted  int
	Running   int
	Succeeded int
	Failed    int
	Canceled  int
}

// Tracker accumulates Job state transitions into running counts. Pending,
// Admitted, and Running counts reflect Jobs currently in that state;
// Succeeded, Failed, and Canceled are lifetime totals.
type Tracker struct {
	mu                                      sync.Mutex
	pending, admitted, running              int
	succeededTotal, failedTotal, canceledTotal int
}

// EnterPending records a new Job starting admission.
func (t *Tracker) EnterPending() {
	t.mu.Lock()
	t.pending++
	t.mu.Unlock()
}

// EnterAdmitted moves a Job from pending to admitted.
func (t *Tracker) EnterAdmitted() {
	t.mu.Lock()
	t.pending--
	t.admitted++
	t.mu.Unlock()
}

// EnterRunning moves a Job from admitted to running.
func (t *Tracker) EnterRunning() {
	t.mu.Lock()
	t.admitted--
	t.running++
	t.mu.Unlock()
}

// LeaveRunning records a running Job reaching a terminal state.
func (t *Tracker) LeaveRunning(succeeded, failed, canceled bool) {
	t.mu.Lock()
	t.running--
	t.recordTerminalLocked(succeeded, failed, canceled)
	t.mu.Unlock()
}

// LeaveAdmitted records an admitted Job reaching a terminal state before
// its backend invocation started (e.g. payload materialization failed).
func (t *Tracker) LeaveAdmitted(succeeded, failed, canceled bool) {
	t.mu.Lock()
	t.admitted--
	t.recordTerminalLocked(succeeded, failed, canceled)
	t.mu.Unlock()
}

// LeavePending records a pending Job canceled before admission (e.g. the
// caller's context was done while it waited for a gate).
func (t *Tracker) LeavePending(succeeded, failed, canceled bool) {
	t.mu.Lock()
	t.pending--
	t.recordTerminalLocked(succeeded, failed, canceled)
	t.mu.Unlock()
}

func (t *Tracker) recordTerminalLocked(succeeded, failed, canceled bool) {
	switch {
	case succeeded:
		t.succeededTotal++
	case failed:
		t.failedTotal++
	case canceled:
		t.canceledTotal++
	}
}

// Snapshot returns a copy of the current counts.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Pending:   t.pending,
		Admitted:  t.admitted,
		Running:   t.running,
		Succeeded: t.succeededTotal,
		Failed:    t.failedTotal,
		Canceled:  t.canceledTotal,
	}
}
