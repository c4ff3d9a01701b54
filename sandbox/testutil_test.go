package sandbox

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/toolscope/docs"
	"github.com/jonwraymond/toolscope/local"
	"github.com/jonwraymond/toolscope/proxy"
	"github.com/jonwraymond/toolscope/registry"
	"github.com/jonwraymond/toolscope/search"
)

// mockEngine implements Engine for executor tests.
type mockEngine struct {
	mu sync.Mutex

	// Configurable behavior
	executeResult ExecuteResult
	executeErr    error
	delay         time.Duration
	executeFn     func(ctx context.Context, params ExecuteParams, env *Env) (ExecuteResult, error)

	// Call tracking
	executeCalls []ExecuteParams
}

func (m *mockEngine) Execute(ctx context.Context, params ExecuteParams, env *Env) (ExecuteResult, error) {
	m.mu.Lock()
	m.executeCalls = append(m.executeCalls, params)
	fn := m.executeFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, params, env)
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ExecuteResult{}, ctx.Err()
		}
	}
	return m.executeResult, m.executeErr
}

func (m *mockEngine) calls() []ExecuteParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecuteParams(nil), m.executeCalls...)
}

// testLogger collects log lines for assertions.
type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// newEchoRegistry builds the canonical test registry: one "echo" server with
// a "ping" tool returning {success: true, message: <input>} and a "slow"
// tool that blocks until its context is cancelled.
func newEchoRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	srv := local.New("echo", "Echo server that returns what it is given")
	srv.MustRegister(local.ToolDef{
		Name:    "ping",
		Summary: "Returns the message it was given",
		Params: []registry.Param{
			{Name: "message", Type: "string", Required: true, Description: "Text to echo back"},
		},
		Returns: "{success: true, message: <input>}",
		Handler: func(_ context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{"success": true, "message": args["message"]}, nil
		},
	})
	srv.MustRegister(local.ToolDef{
		Name:    "slow",
		Summary: "Blocks until the execution is cancelled",
		Handler: func(ctx context.Context, _ map[string]any) (map[string]any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	b := registry.NewBuilder()
	if err := b.Register(srv); err != nil {
		t.Fatal(err)
	}
	return b.Build()
}

// newTestConfig wires a full config over the echo registry.
func newTestConfig(t *testing.T, engine Engine) Config {
	t.Helper()
	reg := newEchoRegistry(t)
	return Config{
		Registry: reg,
		Docs:     docs.NewLoader(reg),
		Search:   search.New(reg),
		Proxies:  proxy.NewFactory(reg),
		Engine:   engine,
	}
}

// newTestExecutor builds an executor over the echo registry, failing the
// test on configuration errors.
func newTestExecutor(t *testing.T, engine Engine) *DefaultExecutor {
	t.Helper()
	exec, err := NewDefaultExecutor(newTestConfig(t, engine))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return exec
}
