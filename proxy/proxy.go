// Package proxy builds callable stubs for registered tools.
//
// A proxy binds a (server, tool) pair at creation time but resolves the
// implementation through the registry on every call. Creating a proxy is
// therefore free: no provider is touched until the first invocation, and a
// proxy for a name that never existed only surfaces the failure when called,
// as a structured result the calling code can branch on.
//
// Proxies hold no state beyond their binding, never cache results, and are
// safe for concurrent use. Every failure mode (unknown server or tool,
// collaborator error, panic inside a local handler) is normalized into a
// {success: false, error: message} result so one failing tool call cannot
// abort unrelated code in the same execution.
package proxy

import (
	"context"
	"fmt"

	"github.com/jonwraymond/toolscope/registry"
)

// Factory creates proxies over an immutable registry snapshot.
type Factory struct {
	reg *registry.Registry
}

// NewFactory creates a Factory over the given registry.
func NewFactory(reg *registry.Registry) *Factory {
	return &Factory{reg: reg}
}

// Create returns a proxy bound to (server, tool). The binding is not
// validated here; resolution happens at call time.
func (f *Factory) Create(server, tool string) *Proxy {
	return &Proxy{reg: f.reg, server: server, tool: tool}
}

// Proxy is a callable stub for one tool. The zero value is not usable;
// create instances with Factory.Create.
type Proxy struct {
	reg    *registry.Registry
	server string
	tool   string
}

// Server returns the bound server name.
func (p *Proxy) Server() string { return p.server }

// Tool returns the bound tool name.
func (p *Proxy) Tool() string { return p.tool }

// Call resolves the current implementation and invokes it with the given
// keyword-style arguments. On success the collaborator's result map is
// returned unmodified. On any failure the returned map is
// {success: false, error: message} and err carries the underlying cause for
// callers outside the sandbox that want errors.Is/As.
func (p *Proxy) Call(ctx context.Context, args map[string]any) (result map[string]any, err error) {
	defer func() {
		// A panicking local handler must not take down the execution.
		if r := recover(); r != nil {
			err = fmt.Errorf("%s:%s: tool panicked: %v", p.server, p.tool, r)
			result = Failure(err)
		}
	}()

	entry, lookupErr := p.reg.Get(p.server)
	if lookupErr != nil {
		return Failure(lookupErr), lookupErr
	}
	if !p.reg.HasTool(p.server, p.tool) {
		nf := &registry.NotFoundError{Server: p.server, Tool: p.tool}
		return Failure(nf), nf
	}

	out, invokeErr := entry.Provider().Invoke(ctx, p.tool, args)
	if invokeErr != nil {
		wrapped := fmt.Errorf("%s:%s: %w", p.server, p.tool, invokeErr)
		return Failure(wrapped), wrapped
	}
	return out, nil
}

// Failure builds the structured failure result for an error.
func Failure(err error) map[string]any {
	return map[string]any{
		"success": false,
		"error":   err.Error(),
	}
}
