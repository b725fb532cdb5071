package jockey

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/orsinium-labs/jockey/api/execution"
	"github.com/orsinium-labs/jockey/backend/cooperative"
	"github.com/orsinium-labs/jockey/backend/process"
	"github.com/orsinium-labs/jockey/backend/thread"
	"github.com/orsinium-labs/jockey/internal/errorsync"
	"github.com/orsinium-labs/jockey/internal/gate"
	"github.com/orsinium-labs/jockey/internal/introspection"
	"github.com/orsinium-labs/jockey/internal/metrics"
	intsync "github.com/orsinium-labs/jockey/internal/sync"
	"github.com/orsinium-labs/jockey/jockeyerrors"
)

// Executor is the public entry point: it owns the Registry reference, the
// capacity gates, and the backend pools, and it fans incoming messages out
// into Jobs, orchestrating their admission, execution, and shutdown.
//
// An Executor must be started before Execute is called, and stopped when
// no longer needed; Run wraps that scoped-activation pattern for the
// common case.
type Executor[K comparable, P any, R any] struct {
	registry *Registry[K, P, R]
	cfg      Config
	logger   *zap.Logger
	metrics  *metrics.Recorder
	tracker  introspection.Tracker

	lifecycle intsync.LifecycleOnce

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc

	globalGate *gate.Gate

	mu              sync.Mutex
	backendGates    map[execution.Backend]*gate.Gate
	handlerGatesMu  sync.Mutex
	handlerGates    map[*Handler[P, R]]*gate.Gate
	cooperative     execution.Dispatcher[P, R]
	thread          execution.Dispatcher[P, R]
	processByName   map[string]execution.Dispatcher[P, R]
	liveBackends    []execution.Dispatcher[P, R]

	wg sync.WaitGroup // every live Job, for Stop's drain wait
}

// NewExecutor builds an Executor over registry. The Executor does not
// start admitting Jobs until Start (or Run) is called.
func NewExecutor[K comparable, P any, R any](registry *Registry[K, P, R], cfg Config) *Executor[K, P, R] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Executor[K, P, R]{
		registry:       registry,
		cfg:            cfg,
		logger:         cfg.Logging.logger(),
		metrics:        metrics.New(cfg.Metrics.Tally),
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
		globalGate:     gate.New(cfg.MaxJobs),
		backendGates:   make(map[execution.Backend]*gate.Gate),
		handlerGates:   make(map[*Handler[P, R]]*gate.Gate),
		processByName:  make(map[string]execution.Dispatcher[P, R]),
	}
}

// Start marks the Executor's Registry as running (rejecting further
// registrations) and makes the Executor ready to admit Jobs. Repeated
// calls return the first call's result.
func (e *Executor[K, P, R]) Start() error {
	return e.lifecycle.Start(func() error {
		e.registry.start()
		e.logger.Info("executor starting")
		return nil
	})
}

// Stop initiates graceful shutdown: live Jobs are given up to
// Config.DrainTimeout to finish on their own, then any still running are
// force-canceled, and backend pools are closed. Admission is not closed
// during the drain period: Execute still accepts calls until Stop returns,
// and Jobs waiting in a gate are still admitted and run.
// Repeated calls return the first call's result.
func (e *Executor[K, P, R]) Stop() error {
	return e.lifecycle.Stop(func() error {
		e.logger.Info("executor stopping")

		doneCh := make(chan struct{})
		go func() {
			e.wg.Wait()
			close(doneCh)
		}()

		drain := e.cfg.drainTimeout()
		select {
		case <-doneCh:
		case <-time.After(drain):
			e.logger.Warn("drain deadline exceeded, force-canceling remaining jobs")
			e.shutdownCancel()
			<-doneCh
		}
		e.shutdownCancel()

		e.mu.Lock()
		backends := append([]execution.Dispatcher[P, R]{}, e.liveBackends...)
		e.mu.Unlock()

		var waiter errorsync.ErrorWaiter
		for _, b := range backends {
			b := b
			waiter.Submit(func() error { return b.Stop(drain) })
		}

		var errs error
		for _, err := range waiter.Wait() {
			errs = multierr.Append(errs, err)
		}
		return errs
	})
}

// Run starts the Executor, runs f, and stops the Executor on every exit
// path from f, returning whichever of Start/f/Stop failed first.
func (e *Executor[K, P, R]) Run(f func(*Executor[K, P, R]) error) error {
	if err := e.Start(); err != nil {
		return err
	}
	defer e.Stop()
	return f(e)
}

// Snapshot returns a point-in-time count of live Jobs by state.
func (e *Executor[K, P, R]) Snapshot() introspection.Snapshot {
	return e.tracker.Snapshot()
}

// Execute fans adapter out into Jobs: one per (adapter, handler) pair for
// every key adapter.Keys returns that has at least one registered
// handler. waitFor selects when Execute returns:
//
//   - waitFor < 0 returns once every Job from this call has been admitted.
//   - waitFor == 0 returns immediately after every Job has been enqueued,
//     before any admission wait.
//   - waitFor > 0 waits up to that duration for every Job from this call
//     to reach a terminal state, then returns regardless; Jobs still
//     running continue unaffected.
func (e *Executor[K, P, R]) Execute(ctx context.Context, adapter Adapter[K, P, R], waitFor time.Duration) error {
	if !e.lifecycle.IsRunning() {
		return jockeyerrors.BackendErrorf(nil, "executor is not running")
	}

	keys, err := adapter.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	var admitted sync.WaitGroup
	var completed sync.WaitGroup

	for _, key := range keys {
		for _, h := range e.registry.Get(key) {
			h := h
			admitted.Add(1)
			completed.Add(1)
			go func() {
				defer completed.Done()
				e.runJob(ctx, h, adapter, &admitted)
			}()
		}
	}

	switch {
	case waitFor == 0:
		return nil
	case waitFor < 0:
		admitted.Wait()
		return nil
	default:
		doneCh := make(chan struct{})
		go func() {
			completed.Wait()
			close(doneCh)
		}()
		select {
		case <-doneCh:
		case <-time.After(waitFor):
		}
		return nil
	}
}

// runJob drives one (adapter, handler) pair through its full lifecycle:
// admission, payload materialization, backend dispatch, and exactly one
// terminal notification. callerCtx is the context passed to the Execute
// call that spawned this Job; canceling it cancels this Job the same way
// executor shutdown does.
func (e *Executor[K, P, R]) runJob(callerCtx context.Context, h *Handler[P, R], adapter Adapter[K, P, R], admitted *sync.WaitGroup) {
	e.wg.Add(1)
	defer e.wg.Done()
	e.tracker.EnterPending()

	jobID := uuid.New()
	logger := e.logger.With(zap.String("job_id", jobID.String()), zap.String("backend", h.Backend.String()))
	logger.Debug("job pending")

	jobCtx, jobCancel := context.WithCancel(e.shutdownCtx)
	defer jobCancel()
	stopWatchingCaller := context.AfterFunc(callerCtx, jobCancel)
	defer stopWatchingCaller()

	composite := e.compositeGateFor(h)
	acquireErr := composite.Acquire(jobCtx, h.Priority)
	admitted.Done()
	if acquireErr != nil {
		e.tracker.LeavePending(false, false, true)
		e.metrics.JobTerminal(JobCanceled.String())
		e.notifyCancel(adapter, jockeyerrors.CancellationErrorf("canceled while waiting for admission: %v", acquireErr))
		return
	}
	e.tracker.EnterAdmitted()
	defer composite.Release()
	e.reportGateOccupancy(h)

	payload, err := adapter.Payload(jobCtx)
	if err != nil {
		e.tracker.LeaveAdmitted(false, true, false)
		e.metrics.JobTerminal(JobFailed.String())
		e.notifyFailure(adapter, jockeyerrors.BackendErrorf(err, "materialize payload"))
		return
	}

	runCtx := jobCtx
	var timedOut func() bool = func() bool { return false }
	if h.Timeout > 0 {
		timeoutCtx, cancelTimeout := context.WithTimeout(jobCtx, h.Timeout)
		defer cancelTimeout()
		runCtx = timeoutCtx
		timedOut = func() bool { return timeoutCtx.Err() == context.DeadlineExceeded }
	}

	backend, err := e.backendFor(h)
	if err != nil {
		e.tracker.LeaveAdmitted(false, true, false)
		e.metrics.JobTerminal(JobFailed.String())
		e.notifyFailure(adapter, err)
		return
	}

	e.tracker.EnterRunning()
	logger.Debug("job running")
	handle := backend.Dispatch(runCtx, h.Fn, payload)
	result, err := handle.Wait(runCtx)

	switch {
	case err == nil:
		e.tracker.LeaveRunning(true, false, false)
		e.metrics.JobTerminal(JobSucceeded.String())
		logger.Debug("job succeeded")
		e.notifySuccess(adapter, result)
	case timedOut():
		e.tracker.LeaveRunning(false, true, false)
		e.metrics.JobTerminal(JobFailed.String())
		e.notifyFailure(adapter, jockeyerrors.TimeoutErrorf("handler exceeded timeout %s", h.Timeout))
	case jobCtx.Err() != nil:
		e.tracker.LeaveRunning(false, false, true)
		e.metrics.JobTerminal(JobCanceled.String())
		e.notifyCancel(adapter, jockeyerrors.CancellationErrorf("canceled: %v", jobCtx.Err()))
	case jockeyerrors.IsBackend(err):
		e.tracker.LeaveRunning(false, true, false)
		e.metrics.JobTerminal(JobFailed.String())
		e.notifyFailure(adapter, err)
	default:
		e.tracker.LeaveRunning(false, true, false)
		e.metrics.JobTerminal(JobFailed.String())
		e.notifyFailure(adapter, jockeyerrors.HandlerErrorf(err, "handler returned an error"))
	}
}

func (e *Executor[K, P, R]) notifySuccess(adapter Adapter[K, P, R], result R) {
	e.safeNotify(func() { adapter.OnSuccess(context.Background(), result) })
}

func (e *Executor[K, P, R]) notifyFailure(adapter Adapter[K, P, R], err error) {
	e.safeNotify(func() { adapter.OnFailure(context.Background(), err) })
}

func (e *Executor[K, P, R]) notifyCancel(adapter Adapter[K, P, R], reason error) {
	e.safeNotify(func() { adapter.OnCancel(context.Background(), reason) })
}

// safeNotify recovers a panicking notification callback so that one Job's
// broken notification can never affect another Job or the executor.
func (e *Executor[K, P, R]) safeNotify(f func()) {
	defer func() {
		if r := recover(); r != nil {
			e.handleNotifyError(jockeyerrors.NotifyErrorf(fmt.Errorf("%v", r), "notification callback panicked"))
		}
	}()
	f()
}

func (e *Executor[K, P, R]) handleNotifyError(err error) {
	e.metrics.NotifyError()
	e.logger.Error("notification callback failed", zap.Error(err))
	if e.cfg.OnNotifyError != nil {
		e.cfg.OnNotifyError(err)
	}
}

// reportGateOccupancy emits gate occupancy gauges right after admission,
// when the change is most observable.
func (e *Executor[K, P, R]) reportGateOccupancy(h *Handler[P, R]) {
	e.metrics.GateInUse("global", e.globalGate.InUse())
	e.metrics.GateInUse("backend."+h.Backend.String(), e.backendGate(h.Backend).InUse())
	e.metrics.GateInUse("handler", e.handlerGate(h).InUse())
}

// compositeGateFor builds the fixed-order (global, per-backend,
// per-handler) gate chain for h.
func (e *Executor[K, P, R]) compositeGateFor(h *Handler[P, R]) *gate.Composite {
	return gate.NewComposite(e.globalGate, e.backendGate(h.Backend), e.handlerGate(h))
}

func (e *Executor[K, P, R]) backendGate(b execution.Backend) *gate.Gate {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g, ok := e.backendGates[b]; ok {
		return g
	}
	var capacity int
	switch b {
	case execution.Thread:
		capacity = e.threadCap()
	case execution.Process:
		capacity = e.cfg.MaxProcesses
	default:
		capacity = 0 // Cooperative: unbounded by the backend gate; ordering is serialized by each job's own goroutine anyway.
	}
	g := gate.New(capacity)
	e.backendGates[b] = g
	return g
}

func (e *Executor[K, P, R]) handlerGate(h *Handler[P, R]) *gate.Gate {
	e.handlerGatesMu.Lock()
	defer e.handlerGatesMu.Unlock()
	if g, ok := e.handlerGates[h]; ok {
		return g
	}
	g := gate.New(h.MaxConcurrent)
	e.handlerGates[h] = g
	return g
}

func (e *Executor[K, P, R]) threadCap() int {
	if e.cfg.MaxThreads > 0 {
		return e.cfg.MaxThreads
	}
	return runtime.NumCPU()
}

func (e *Executor[K, P, R]) processCap() int {
	if e.cfg.MaxProcesses > 0 {
		return e.cfg.MaxProcesses
	}
	return runtime.NumCPU()
}

// backendFor returns the (lazily started) backend dispatcher for h,
// matching spec.md §4.2's "backends are started lazily on first use."
func (e *Executor[K, P, R]) backendFor(h *Handler[P, R]) (execution.Dispatcher[P, R], error) {
	switch h.Backend {
	case execution.Thread:
		return e.threadBackend()
	case execution.Process:
		return e.processBackendFor(h)
	default:
		return e.cooperativeBackend()
	}
}

func (e *Executor[K, P, R]) cooperativeBackend() (execution.Dispatcher[P, R], error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cooperative != nil {
		return e.cooperative, nil
	}
	b := cooperative.New[P, R]()
	if err := b.Start(); err != nil {
		return nil, jockeyerrors.BackendErrorf(err, "start cooperative backend")
	}
	e.cooperative = b
	e.liveBackends = append(e.liveBackends, b)
	return b, nil
}

func (e *Executor[K, P, R]) threadBackend() (execution.Dispatcher[P, R], error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.thread != nil {
		return e.thread, nil
	}
	b := thread.New[P, R](e.threadCap())
	if err := b.Start(); err != nil {
		return nil, jockeyerrors.BackendErrorf(err, "start thread backend")
	}
	e.thread = b
	e.liveBackends = append(e.liveBackends, b)
	return b, nil
}

func (e *Executor[K, P, R]) processBackendFor(h *Handler[P, R]) (execution.Dispatcher[P, R], error) {
	if h.Name == "" {
		return nil, jockeyerrors.BackendErrorf(nil, "process handler requires a Name (see WithName)")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.processByName[h.Name]; ok {
		return b, nil
	}

	size := h.MaxConcurrent
	if size <= 0 {
		size = e.processCap()
	}
	b := process.New[P, R](h.Name, size, e.logger)
	if err := b.Start(); err != nil {
		return nil, jockeyerrors.BackendErrorf(err, "start process backend for %q", h.Name)
	}
	e.processByName[h.Name] = b
	e.liveBackends = append(e.liveBackends, b)
	return b, nil
}
