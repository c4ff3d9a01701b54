package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/toolscope/docs"
	"github.com/jonwraymond/toolscope/proxy"
	"github.com/jonwraymond/toolscope/registry"
	"github.com/jonwraymond/toolscope/search"
)

// Env is the helper environment injected into one snippet execution. It
// binds the discovery, documentation, search, and proxy operations to the
// immutable registry snapshot, records every proxy invocation, and captures
// printed output.
//
// Helper failures are returned as structured values ({"error": message})
// rather than thrown into the snippet, so submitted code can branch on them.
//
// An Env is scoped to a single execution and must not be reused. Its methods
// are safe for concurrent use; the output buffer in particular may be read
// by the executor while an abandoned execution is still winding down.
type Env struct {
	reg     *registry.Registry
	docs    *docs.Loader
	search  *search.Searcher
	proxies *proxy.Factory
	logger  Logger

	maxToolCalls int

	mu        sync.Mutex
	callCount int
	toolCalls []ToolCallRecord
	output    strings.Builder
}

// newEnv creates the environment for one execution. A maxToolCalls of 0 is
// treated as unlimited.
func newEnv(cfg *Config, maxToolCalls int) *Env {
	return &Env{
		reg:          cfg.Registry,
		docs:         cfg.Docs,
		search:       cfg.Search,
		proxies:      cfg.Proxies,
		logger:       cfg.Logger,
		maxToolCalls: maxToolCalls,
	}
}

// ListServers returns every registered server's name and description.
func (e *Env) ListServers() []map[string]any {
	servers := e.reg.ListServers()
	out := make([]map[string]any, 0, len(servers))
	for _, s := range servers {
		out = append(out, map[string]any{
			"name":        s.Name,
			"description": s.Description,
		})
	}
	return out
}

// GetToolNames returns the ordered tool names for a server, or a structured
// error value for unknown servers.
func (e *Env) GetToolNames(server string) any {
	names, err := e.reg.ToolNames(server)
	if err != nil {
		return failureValue(err)
	}
	return names
}

// Describe returns documentation for a server (tool empty) or a single tool
// at the given detail level. An empty detail defaults to summary, keeping
// the cost of a default call proportional to a one-line answer.
func (e *Env) Describe(server, tool, detail string) any {
	level := docs.DetailLevel(detail)
	if detail == "" {
		level = docs.DetailSummary
	}
	text, err := e.docs.Describe(server, tool, level)
	if err != nil {
		return failureValue(err)
	}
	return text
}

// Search returns ranked (server, tool) candidates for a free-text query.
func (e *Env) Search(query string, limit int) []map[string]any {
	results := e.search.Search(query, limit)
	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]any{
			"server":      r.Server,
			"tool":        r.Tool,
			"score":       r.Score,
			"description": r.Description,
		})
	}
	return out
}

// CreateProxy returns a proxy bound to (server, tool). The binding is not
// validated; a bad name surfaces as a structured failure at call time.
func (e *Env) CreateProxy(server, tool string) *proxy.Proxy {
	return e.proxies.Create(server, tool)
}

// CallProxy invokes a proxy, records the call, and enforces the tool-call
// limit. The returned map is either the collaborator's result or a
// {success: false, error: message} failure; it never panics into the
// snippet.
func (e *Env) CallProxy(ctx context.Context, p *proxy.Proxy, args map[string]any) map[string]any {
	e.mu.Lock()
	if e.maxToolCalls > 0 && e.callCount >= e.maxToolCalls {
		e.mu.Unlock()
		err := fmt.Errorf("%w: max tool calls (%d) exceeded", ErrLimitExceeded, e.maxToolCalls)
		return proxy.Failure(err)
	}
	e.callCount++
	e.mu.Unlock()

	start := time.Now()
	result, err := p.Call(ctx, args)
	duration := time.Since(start).Milliseconds()

	record := ToolCallRecord{
		Server:     p.Server(),
		Tool:       p.Tool(),
		Args:       deepCopyArgs(args),
		Result:     result,
		DurationMs: duration,
	}
	if err != nil {
		record.Error = err.Error()
	}

	e.mu.Lock()
	e.toolCalls = append(e.toolCalls, record)
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Logf("tool call %s:%s in %dms", p.Server(), p.Tool(), duration)
	}
	return result
}

// Println writes a line to the captured output buffer.
func (e *Env) Println(args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintln(&e.output, args...)
}

// ToolCalls returns a copy of all recorded tool calls.
func (e *Env) ToolCalls() []ToolCallRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ToolCallRecord(nil), e.toolCalls...)
}

// Output returns the output captured so far. It is safe to call while an
// abandoned execution is still running; partial output is preserved.
func (e *Env) Output() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.output.String()
}

// failureValue is the structured error shape helpers return into snippets.
func failureValue(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

// deepCopyArgs snapshots an args map so later snippet mutation cannot alter
// the recorded trace. Values round-trip through JSON-native shapes.
func deepCopyArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return deepCopyArgs(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case string, bool, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return val
	default:
		// Uncommon shapes normalize through a JSON round-trip.
		data, err := json.Marshal(val)
		if err != nil {
			return val
		}
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return val
		}
		return out
	}
}
