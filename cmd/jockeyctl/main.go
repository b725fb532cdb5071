// Command jockeyctl is a worked example of wiring jockey end to end: three
// arithmetic handlers (two cooperative, one on the PROCESS backend), fed
// a fixed batch of messages, with results printed as they arrive.
package main

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orsinium-labs/jockey"
	"github.com/orsinium-labs/jockey/backend/process"
	"github.com/orsinium-labs/jockey/config"
)

// operands is the payload shared by every handler registered below.
type operands struct {
	A, B float64
}

func init() {
	// Registered unconditionally so the same init() runs in both the
	// orchestrator process and any worker process re-exec'd from it.
	gob.Register(operands{})
	process.RegisterWorkerFunc[operands, float64]("/", func(ctx context.Context, o operands) (float64, error) {
		if o.B == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return o.A / o.B, nil
	})
}

func main() {
	if os.Getenv(process.WorkerEnvVar) != "" {
		if err := process.RunWorker(); err != nil {
			fmt.Fprintln(os.Stderr, "worker:", err)
			os.Exit(1)
		}
		return
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "jockeyctl",
		Short: "Run the arithmetic example batch against a jockey executor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cfgFile)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "path to a jockey YAML config file")
	return cmd
}

type message struct {
	label string
	key   string
	a, b  float64
}

type cliAdapter struct {
	msg     message
	logger  *zap.Logger
	results chan<- string
}

func (a *cliAdapter) Keys(ctx context.Context) ([]string, error) { return []string{a.msg.key}, nil }

func (a *cliAdapter) Payload(ctx context.Context) (operands, error) {
	return operands{A: a.msg.a, B: a.msg.b}, nil
}

func (a *cliAdapter) OnSuccess(ctx context.Context, result float64) {
	a.results <- fmt.Sprintf("%s = %v", a.msg.label, result)
}

func (a *cliAdapter) OnFailure(ctx context.Context, err error) {
	a.results <- fmt.Sprintf("%s failed: %v", a.msg.label, err)
}

func (a *cliAdapter) OnCancel(ctx context.Context, reason error) {
	a.results <- fmt.Sprintf("%s canceled: %v", a.msg.label, reason)
}

func runBatch(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()
	cfg.Logging.Zap = logger

	registry := jockey.NewRegistry[string, operands, float64]()
	if _, err := registry.Add("+", func(ctx context.Context, o operands) (float64, error) {
		return o.A + o.B, nil
	}); err != nil {
		return err
	}
	if _, err := registry.Add("-", func(ctx context.Context, o operands) (float64, error) {
		time.Sleep(time.Second)
		return o.A - o.B, nil
	}); err != nil {
		return err
	}
	if _, err := registry.Add("/", func(ctx context.Context, o operands) (float64, error) {
		if o.B == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return o.A / o.B, nil
	}, jockey.WithBackend[operands, float64](jockey.Process), jockey.WithName[operands, float64]("/")); err != nil {
		return err
	}

	executor := jockey.NewExecutor(registry, cfg)
	messages := []message{
		{"3-2", "-", 3, 2},
		{"4+5", "+", 4, 5},
		{"3/2", "/", 3, 2},
		{"3/0", "/", 3, 0},
		{"3+0", "+", 3, 0},
	}

	results := make(chan string, len(messages))
	return executor.Run(func(e *jockey.Executor[string, operands, float64]) error {
		for _, m := range messages {
			m := m
			go func() {
				if err := e.Execute(context.Background(), &cliAdapter{msg: m, logger: logger, results: results}, time.Minute); err != nil {
					results <- fmt.Sprintf("%s: execute error: %v", m.label, err)
				}
			}()
		}
		for range messages {
			fmt.Println(<-results)
		}
		return nil
	})
}
