// Package toolscope provides a unified facade for the progressive-disclosure
// tool execution runtime.
//
// toolscope wires the registry, documentation loader, fuzzy search, proxy
// factory, and execution sandbox into one instance. Callers register tool
// servers (any registry.Provider: in-process handlers via the local package,
// external MCP servers via the remote package), then submit code snippets
// that discover and invoke those tools from inside the sandbox.
//
// # Basic Usage
//
//	srv := local.New("echo", "Echo server for smoke tests")
//	srv.MustRegister(local.ToolDef{
//	    Name:    "ping",
//	    Summary: "Returns the message it was given",
//	    Params:  []registry.Param{{Name: "message", Type: "string", Required: true}},
//	    Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
//	        return map[string]any{"success": true, "message": args["message"]}, nil
//	    },
//	})
//
//	ts, err := toolscope.New(toolscope.Options{Providers: []registry.Provider{srv}})
//	result, err := ts.Execute(ctx, sandbox.ExecuteParams{
//	    Code: `p = create_proxy("echo", "ping"); result = p({message: "hi"})`,
//	})
//
// The snippet sees only the helper surface (list_servers, get_tool_names,
// describe, search, create_proxy, println) plus inert data utilities; the
// externally visible protocol never grows as tools are added.
package toolscope

import (
	"context"

	"github.com/jonwraymond/toolscope/docs"
	"github.com/jonwraymond/toolscope/proxy"
	"github.com/jonwraymond/toolscope/registry"
	"github.com/jonwraymond/toolscope/sandbox"
	"github.com/jonwraymond/toolscope/search"
)

// Toolscope is the wired runtime: one immutable registry snapshot plus the
// helper layers and the sandbox executor built over it. Safe for concurrent
// use; executions are independent.
type Toolscope struct {
	reg      *registry.Registry
	docs     *docs.Loader
	search   *search.Searcher
	proxies  *proxy.Factory
	executor sandbox.Executor
}

// New builds a runtime from the given options. The registry snapshot is
// assembled once here; providers must be fully registered before New is
// called.
func New(opts Options) (*Toolscope, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	builder := registry.NewBuilder()
	for _, p := range opts.Providers {
		if err := builder.Register(p); err != nil {
			return nil, err
		}
	}
	reg := builder.Build()

	loader := docs.NewLoader(reg)
	searcher := search.New(reg)
	factory := proxy.NewFactory(reg)

	executor, err := sandbox.NewDefaultExecutor(sandbox.Config{
		Registry:       reg,
		Docs:           loader,
		Search:         searcher,
		Proxies:        factory,
		Engine:         opts.Engine,
		DefaultTimeout: opts.DefaultTimeout,
		MaxToolCalls:   opts.MaxToolCalls,
		Logger:         opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Toolscope{
		reg:      reg,
		docs:     loader,
		search:   searcher,
		proxies:  factory,
		executor: executor,
	}, nil
}

// Execute runs a snippet in the sandbox with the helper surface bound to
// this runtime's registry.
func (t *Toolscope) Execute(ctx context.Context, params sandbox.ExecuteParams) (sandbox.ExecuteResult, error) {
	return t.executor.Execute(ctx, params)
}

// ListServers returns the discovery view of every registered server.
func (t *Toolscope) ListServers() []registry.ServerSummary {
	return t.reg.ListServers()
}

// SearchTools returns ranked (server, tool) candidates for a query.
func (t *Toolscope) SearchTools(query string, limit int) []search.Result {
	return t.search.Search(query, limit)
}

// DescribeTool returns documentation for a server or tool at the given
// detail level.
func (t *Toolscope) DescribeTool(server, tool string, level docs.DetailLevel) (string, error) {
	return t.docs.Describe(server, tool, level)
}

// Registry returns the underlying immutable registry snapshot.
func (t *Toolscope) Registry() *registry.Registry {
	return t.reg
}

// Proxies returns the proxy factory, for direct (non-sandboxed) tool calls.
func (t *Toolscope) Proxies() *proxy.Factory {
	return t.proxies
}
