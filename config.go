package jockey

import (
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

const (
	_packageName        = "jockey"
	_defaultDrainTimeout = 30 * time.Second
)

// LoggingConfig describes how the executor should log.
type LoggingConfig struct {
	// Zap supplies a logger for the executor. By default, no logs are
	// emitted.
	Zap *zap.Logger
}

func (c LoggingConfig) logger() *zap.Logger {
	if c.Zap == nil {
		return zap.NewNop()
	}
	return c.Zap.Named(_packageName).With(zap.Namespace(_packageName))
}

// MetricsConfig describes how the executor should report metrics.
type MetricsConfig struct {
	// Tally is the scope metrics are reported under. By default (nil),
	// metrics go to a no-op scope and are discarded.
	Tally tally.Scope
}

// Config configures an Executor.
type Config struct {
	// MaxJobs caps the number of Jobs RUNNING at once, across every key
	// and backend. 0 means unbounded.
	MaxJobs int

	// MaxThreads sizes the THREAD backend's pool. 0 defaults to
	// runtime.NumCPU().
	MaxThreads int

	// MaxProcesses sizes each named PROCESS backend's worker pool. 0
	// defaults to runtime.NumCPU().
	MaxProcesses int

	// DrainTimeout bounds how long Stop waits for RUNNING Jobs to finish
	// on their own before force-canceling them. 0 defaults to 30s.
	DrainTimeout time.Duration

	// OnNotifyError is invoked whenever an Adapter notification callback
	// panics or (for interfaces that return one) errors. May be nil.
	OnNotifyError func(error)

	Logging LoggingConfig
	Metrics MetricsConfig
}

func (c Config) drainTimeout() time.Duration {
	if c.DrainTimeout <= 0 {
		return _defaultDrainTimeout
	}
	return c.DrainTimeout
}
