// Package metrics wraps a tally.Scope: optional, defaulting to a no-op
// scope, namespaced under a constant prefix so jockey's metrics never
// collide with a host application's.
package metrics

import "github.com/uber-go/tally"

const _prefix = "jockey"

// Recorder emits the executor's operational metrics: job outcomes and
// gate occupancy. A zero-value Recorder obtained via New(nil) records
// into a no-op scope, so instrumentation is always safe to call.
type Recorder struct {
	scope tally.Scope
}

// New builds a Recorder over scope. A nil scope means tally.NoopScope:
// metrics are discarded.
func New(scope tally.Scope) *Recorder {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &Recorder{scope: scope.SubScope(_prefix)}
}

// JobTerminal increments the counter for a Job reaching the given
// terminal state (one of "succeeded", "failed", "canceled").
func (r *Recorder) JobTerminal(state string) {
	r.scope.Tagged(map[string]string{"state": state}).Counter("jobs_total").Inc(1)
}

// GateInUse reports the current occupancy of a named gate (e.g.
// "global", "backend.thread", "handler").
func (r *Recorder) GateInUse(name string, n int) {
	r.scope.Tagged(map[string]string{"gate": name}).Gauge("gate_in_use").Update(float64(n))
}

// NotifyError increments the counter for a notification callback that
// raised or panicked.
func (r *Recorder) NotifyError() {
	r.scope.Counter("notify_errors_total").Inc(1)
}
