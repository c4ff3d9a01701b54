package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Executor is the entry point for executing snippets. It orchestrates
// configuration, limits, and result collection.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; executions
//   run independently and share only the immutable registry.
// - Context: must honor cancellation/deadlines; deadline expiry is reported
//   as a wrapped ErrTimeout.
// - Errors: configuration failures return ErrConfiguration; snippet faults
//   are reported as CodeError values.
// - Ownership: params are read-only; the returned ExecuteResult is
//   caller-owned.
type Executor interface {
	// Execute runs a snippet with the given parameters. It applies
	// configuration defaults, enforces limits, and collects tool call
	// traces and captured output.
	Execute(ctx context.Context, params ExecuteParams) (ExecuteResult, error)
}

// DefaultExecutor is the standard implementation of Executor.
type DefaultExecutor struct {
	cfg Config
}

// NewDefaultExecutor creates a DefaultExecutor with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func NewDefaultExecutor(cfg Config) (*DefaultExecutor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &DefaultExecutor{cfg: cfg}, nil
}

// Execute runs a snippet with the given parameters.
//
// The engine runs on its own goroutine. If the wall-clock budget expires the
// execution is abandoned: the interpreter is interrupted through the context,
// outstanding tool calls observe cancellation, and the caller gets a wrapped
// ErrTimeout along with whatever output was captured before the deadline.
func (e *DefaultExecutor) Execute(ctx context.Context, params ExecuteParams) (ExecuteResult, error) {
	if params.Timeout == 0 {
		params.Timeout = e.cfg.DefaultTimeout
	}

	maxCalls := params.MaxToolCalls
	if e.cfg.MaxToolCalls > 0 && (maxCalls == 0 || maxCalls > e.cfg.MaxToolCalls) {
		maxCalls = e.cfg.MaxToolCalls
	}

	env := newEnv(&e.cfg, maxCalls)

	ctx, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()

	type outcome struct {
		result ExecuteResult
		err    error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		result, err := e.cfg.Engine.Execute(ctx, params, env)
		done <- outcome{result, err}
	}()

	var result ExecuteResult
	var err error
	select {
	case out := <-done:
		result, err = out.result, out.err
	case <-ctx.Done():
		// The engine goroutine is abandoned; the interrupt lands at its
		// next interpreter step and any blocked tool call sees ctx.Err().
		err = ctx.Err()
	}
	duration := time.Since(start)

	result.ToolCalls = env.ToolCalls()
	result.Output = env.Output()
	result.DurationMs = duration.Milliseconds()

	if e.cfg.Logger != nil {
		e.cfg.Logger.Logf("executed %d tool calls in %dms", len(result.ToolCalls), result.DurationMs)
	}

	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		result.Value = nil
		return result, fmt.Errorf("%w after %v", ErrTimeout, params.Timeout)
	}

	return result, err
}
