// Package process implements the PROCESS execution backend: handler calls
// run in a pool of long-lived worker subprocesses (the module's own binary,
// re-executed in worker mode), communicating over stdin/stdout with the
// length-prefixed gob frames defined in procwire.
//
// Go has no way to serialize a function value across a process boundary,
// so a PROCESS handler must be registered by name with RegisterWorkerFunc
// in both the orchestrator and the worker binary
// (in practice the same init() in the same binary, since the worker is a
// re-exec of the orchestrator). Dispatch sends the name and the payload;
// it never sends fn.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/orsinium-labs/jockey/api/execution"
	"github.com/orsinium-labs/jockey/backend/process/procwire"
	"github.com/orsinium-labs/jockey/jockeyerrors"
)

// WorkerEnvVar is set in the child process's environment to signal that it
// should run RunWorker instead of the orchestrator's normal main.
const WorkerEnvVar = "JOCKEY_PROCESS_WORKER"

var registry = struct {
	mu  sync.RWMutex
	fns map[string]func(context.Context, interface{}) (interface{}, error)
}{fns: make(map[string]func(context.Context, interface{}) (interface{}, error))}

// RegisterWorkerFunc makes fn callable by name from a worker process. Call
// it from an init() so it runs in both the orchestrator and the re-exec'd
// worker.
func RegisterWorkerFunc[P any, R any](name string, fn func(context.Context, P) (R, error)) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.fns[name] = func(ctx context.Context, payload interface{}) (interface{}, error) {
		p, ok := payload.(P)
		if !ok {
			return nil, jockeyerrors.BackendErrorf(nil, "payload type mismatch dispatching %q", name)
		}
		return fn(ctx, p)
	}
}

// RunWorker reads requests from stdin and writes responses to stdout until
// stdin closes. Call it from main() when os.Getenv(WorkerEnvVar) != "".
func RunWorker() error {
	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	for {
		var req procwire.Request
		if err := procwire.ReadFrame(in, &req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		resp := handleRequest(req)

		if err := procwire.WriteFrame(out, &resp); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}
}

func handleRequest(req procwire.Request) (resp procwire.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = procwire.Response{Err: fmt.Sprintf("worker panic: %v", r)}
		}
	}()

	registry.mu.RLock()
	fn, ok := registry.fns[req.Name]
	registry.mu.RUnlock()
	if !ok {
		return procwire.Response{Err: fmt.Sprintf("no worker function registered for %q", req.Name)}
	}

	result, err := fn(context.Background(), req.Payload)
	if err != nil {
		return procwire.Response{Err: err.Error()}
	}
	return procwire.Response{Result: result}
}

// worker is one live child process and its pipes. Access to stdin/stdout
// is serialized by the Backend handing the worker out of its idle channel
// to exactly one in-flight Dispatch at a time.
type worker struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// Backend is the PROCESS execution.Dispatcher for one named handler.
type Backend[P any, R any] struct {
	name   string
	size   int
	logger *zap.Logger

	mu      sync.Mutex
	exe     string
	workers []*worker
	idle    chan *worker
	closed  atomic.Bool
}

// New returns a process backend that dispatches calls under name. size <=
// 0 defaults to runtime.NumCPU().
func New[P any, R any](name string, size int, logger *zap.Logger) *Backend[P, R] {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend[P, R]{
		name:   name,
		size:   size,
		logger: logger,
		idle:   make(chan *worker, size),
	}
}

// Start spawns the worker pool, re-executing the current binary with
// WorkerEnvVar set.
func (b *Backend[P, R]) Start() error {
	exe, err := os.Executable()
	if err != nil {
		return jockeyerrors.BackendErrorf(err, "resolve worker executable")
	}
	b.exe = exe

	for i := 0; i < b.size; i++ {
		w, err := b.spawn()
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.workers = append(b.workers, w)
		b.mu.Unlock()
		b.idle <- w
	}
	return nil
}

func (b *Backend[P, R]) spawn() (*worker, error) {
	cmd := exec.Command(b.exe)
	cmd.Env = append(os.Environ(), WorkerEnvVar+"=1")
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, jockeyerrors.BackendErrorf(err, "open worker stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, jockeyerrors.BackendErrorf(err, "open worker stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, jockeyerrors.BackendErrorf(err, "spawn worker process")
	}
	return &worker{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

// Stop closes the pool to new dispatches, gives workers up to drain to
// exit cleanly (stdin closed, process exits on EOF), then kills whatever
// is left.
func (b *Backend[P, R]) Stop(drain time.Duration) error {
	b.closed.Store(true)

	b.mu.Lock()
	workers := b.workers
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, w := range workers {
			w.stdin.Close()
		}
		for _, w := range workers {
			w.cmd.Wait()
		}
		close(done)
	}()

	if drain > 0 {
		select {
		case <-done:
			return nil
		case <-time.After(drain):
		}
	}

	var errs error
	for _, w := range workers {
		if w.cmd.ProcessState != nil {
			continue
		}
		if err := w.cmd.Process.Kill(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Dispatch sends payload to an idle worker under b.name and returns a
// Handle for the response. fn is accepted to satisfy execution.Dispatcher
// but is never invoked here — by the time a handler reaches the PROCESS
// backend, its body only runs inside a worker, looked up by name via
// RegisterWorkerFunc.
func (b *Backend[P, R]) Dispatch(ctx context.Context, fn func(context.Context, P) (R, error), payload P) execution.Handle[R] {
	_ = fn
	resultCh := make(chan result[R], 1)

	if b.closed.Load() {
		resultCh <- result[R]{err: jockeyerrors.BackendErrorf(nil, "process pool closed")}
		return handle[R]{ch: resultCh}
	}

	go func() {
		var w *worker
		select {
		case w = <-b.idle:
		case <-ctx.Done():
			resultCh <- result[R]{err: ctx.Err()}
			return
		}
		defer func() {
			if !b.closed.Load() {
				b.idle <- w
			}
		}()

		req := procwire.Request{Name: b.name, Payload: payload}
		if err := procwire.WriteFrame(w.stdin, &req); err != nil {
			resultCh <- result[R]{err: jockeyerrors.BackendErrorf(err, "write request to worker")}
			return
		}

		var resp procwire.Response
		if err := procwire.ReadFrame(w.stdout, &resp); err != nil {
			resultCh <- result[R]{err: jockeyerrors.BackendErrorf(err, "read response from worker")}
			return
		}
		if resp.Err != "" {
			resultCh <- result[R]{err: jockeyerrors.HandlerErrorf(errors.New(resp.Err), "process handler failed")}
			return
		}

		if resp.Result == nil {
			var zero R
			resultCh <- result[R]{val: zero}
			return
		}
		val, ok := resp.Result.(R)
		if !ok {
			resultCh <- result[R]{err: jockeyerrors.BackendErrorf(nil, "result type mismatch for %q", b.name)}
			return
		}
		resultCh <- result[R]{val: val}
	}()

	return handle[R]{ch: resultCh}
}

type result[R any] struct {
	val R
	err error
}

type handle[R any] struct {
	ch <-chan result[R]
}

func (h handle[R]) Wait(ctx context.Context) (R, error) {
	select {
	case res := <-h.ch:
		return res.val, res.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
