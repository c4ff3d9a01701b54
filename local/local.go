// Package local provides an in-process tool server. Handlers are plain Go
// functions registered at startup; the server implements registry.Provider so
// it can be cataloged, described, and invoked like any external collaborator.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonwraymond/toolscope/registry"
)

// HandlerFunc is the function signature for local tool handlers.
type HandlerFunc func(ctx context.Context, args map[string]any) (map[string]any, error)

// ToolDef defines a local tool with its schema and handler.
type ToolDef struct {
	Name    string
	Summary string
	Doc     string
	Params  []registry.Param
	Returns string
	Handler HandlerFunc
}

// Server implements registry.Provider for in-process tool handlers.
// Registration happens before the server is placed in a registry snapshot;
// after that the tool set must be treated as frozen.
type Server struct {
	name        string
	description string

	mu    sync.RWMutex
	tools map[string]ToolDef
	order []string
}

var _ registry.Provider = (*Server)(nil)

// New creates a local tool server with the given name and description.
func New(name, description string) *Server {
	return &Server{
		name:        name,
		description: description,
		tools:       make(map[string]ToolDef),
	}
}

// Register adds a tool definition. Registering a name twice overwrites the
// previous definition without changing its position in the tool order.
func (s *Server) Register(def ToolDef) error {
	if def.Name == "" {
		return fmt.Errorf("local: tool name is required")
	}
	if def.Handler == nil {
		return fmt.Errorf("local: tool %q has no handler", def.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[def.Name]; !exists {
		s.order = append(s.order, def.Name)
	}
	s.tools[def.Name] = def
	return nil
}

// MustRegister is Register that panics on error, for static tool tables.
func (s *Server) MustRegister(def ToolDef) {
	if err := s.Register(def); err != nil {
		panic(err)
	}
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.name
}

// Description returns the server description.
func (s *Server) Description() string {
	return s.description
}

// ToolNames returns tool names in registration order.
func (s *Server) ToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Schema returns the schema for a registered tool.
func (s *Server) Schema(tool string) (registry.ToolSchema, error) {
	s.mu.RLock()
	def, ok := s.tools[tool]
	s.mu.RUnlock()
	if !ok {
		return registry.ToolSchema{}, &registry.NotFoundError{Server: s.name, Tool: tool}
	}
	return registry.ToolSchema{
		Name:    def.Name,
		Server:  s.name,
		Summary: def.Summary,
		Doc:     def.Doc,
		Params:  append([]registry.Param(nil), def.Params...),
		Returns: def.Returns,
	}, nil
}

// Invoke runs a tool handler. Missing required arguments are rejected before
// the handler runs; optional parameters receive their declared defaults.
func (s *Server) Invoke(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	s.mu.RLock()
	def, ok := s.tools[tool]
	s.mu.RUnlock()
	if !ok {
		return nil, &registry.NotFoundError{Server: s.name, Tool: tool}
	}

	effective := make(map[string]any, len(args))
	for k, v := range args {
		effective[k] = v
	}
	for _, p := range def.Params {
		if _, present := effective[p.Name]; present {
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("missing required argument %q", p.Name)
		}
		if p.Default != nil {
			effective[p.Name] = p.Default
		}
	}

	return def.Handler(ctx, effective)
}
