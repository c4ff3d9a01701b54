package registry

import "fmt"

// ServerSummary is the discovery view of a registered server: name and
// description only, no schema payload.
type ServerSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServerEntry is one registered tool server. Entries are immutable for the
// process lifetime and owned exclusively by the Registry.
type ServerEntry struct {
	// Name is the unique server name.
	Name string

	// Description is the one-line server description.
	Description string

	// ToolNames is the ordered list of tool names the server exposes.
	ToolNames []string

	summaries map[string]string
	provider  Provider
}

// Summary returns the tool's one-line summary captured at registration, or
// "" for unknown tool names. It never touches the provider, so ranking and
// discovery layers can read summaries without loading schemas.
func (e *ServerEntry) Summary(tool string) string {
	return e.summaries[tool]
}

// Provider returns the implementation behind this entry. The proxy layer
// resolves it fresh on every call.
func (e *ServerEntry) Provider() Provider {
	return e.provider
}

// Registry is an immutable snapshot of registered tool servers. The zero
// value is an empty registry; populated instances are created with a Builder.
// All methods are safe for unsynchronized concurrent use.
type Registry struct {
	entries map[string]*ServerEntry
	order   []string
}

// Builder assembles a Registry. It is not safe for concurrent use; build the
// snapshot once at startup, then share the Registry freely.
type Builder struct {
	entries map[string]*ServerEntry
	order   []string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]*ServerEntry)}
}

// Register adds a provider to the snapshot under construction. The provider's
// name, description, and tool list are captured eagerly so discovery never
// touches the provider again. Duplicate or empty names are rejected.
func (b *Builder) Register(p Provider) error {
	if p == nil {
		return fmt.Errorf("registry: provider is nil")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("registry: provider name is required")
	}
	if _, exists := b.entries[name]; exists {
		return fmt.Errorf("registry: server %q already registered", name)
	}

	tools := append([]string(nil), p.ToolNames()...)
	summaries := make(map[string]string, len(tools))
	for _, tool := range tools {
		schema, err := p.Schema(tool)
		if err != nil {
			return fmt.Errorf("registry: schema for %s:%s: %w", name, tool, err)
		}
		summaries[tool] = schema.Summary
	}

	b.entries[name] = &ServerEntry{
		Name:        name,
		Description: p.Description(),
		ToolNames:   tools,
		summaries:   summaries,
		provider:    p,
	}
	b.order = append(b.order, name)
	return nil
}

// Build finalizes the snapshot. The Builder must not be used afterwards.
func (b *Builder) Build() *Registry {
	reg := &Registry{
		entries: b.entries,
		order:   append([]string(nil), b.order...),
	}
	b.entries = nil
	b.order = nil
	return reg
}

// ListServers returns every registered server's name and description in
// registration order. This is the near-zero-cost discovery call: the returned
// payload carries no schemas, so its size is independent of how many tools
// each server exposes.
func (r *Registry) ListServers() []ServerSummary {
	out := make([]ServerSummary, 0, len(r.order))
	for _, name := range r.order {
		e := r.entries[name]
		out = append(out, ServerSummary{Name: e.Name, Description: e.Description})
	}
	return out
}

// Get returns the entry for a server name.
func (r *Registry) Get(name string) (*ServerEntry, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, &NotFoundError{Server: name}
	}
	return e, nil
}

// ToolNames returns the ordered tool names for a server.
func (r *Registry) ToolNames(name string) ([]string, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, &NotFoundError{Server: name}
	}
	return append([]string(nil), e.ToolNames...), nil
}

// HasTool reports whether the named server exposes the named tool.
func (r *Registry) HasTool(server, tool string) bool {
	e, ok := r.entries[server]
	if !ok {
		return false
	}
	for _, t := range e.ToolNames {
		if t == tool {
			return true
		}
	}
	return false
}

// Len returns the number of registered servers.
func (r *Registry) Len() int {
	return len(r.order)
}
