// Package remote provides a tool server backed by an external MCP server.
//
// A remote.Server connects to a collaborator over stdio or streamable-HTTP
// using the official MCP Go SDK, imports its tool catalog once at startup,
// and implements registry.Provider so the catalog can be registered in the
// immutable snapshot alongside in-process servers. Tool invocations are
// forwarded over the live session; the session's structured result (or its
// text content) is returned as the collaborator result map.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/toolscope/registry"
)

// Transport selects how a remote server is reached.
type Transport string

// Supported transports.
const (
	TransportStdio          Transport = "stdio"
	TransportStreamableHTTP Transport = "http"
)

// Valid reports whether the transport is a supported value.
func (t Transport) Valid() bool {
	return t == TransportStdio || t == TransportStreamableHTTP
}

// ServerConfig describes one external MCP server.
type ServerConfig struct {
	// Name is the unique server name used in the registry.
	Name string `yaml:"name"`

	// Description is the one-line discovery description.
	Description string `yaml:"description"`

	// Transport selects stdio or streamable-HTTP.
	Transport Transport `yaml:"transport"`

	// Command is the subprocess to launch for stdio transport; it is split
	// on whitespace into executable and arguments.
	Command string `yaml:"command,omitempty"`

	// Env holds extra KEY=VALUE environment entries for the subprocess.
	Env map[string]string `yaml:"env,omitempty"`

	// URL is the endpoint for streamable-HTTP transport.
	URL string `yaml:"url,omitempty"`
}

// Validate checks the config for a usable transport and address.
func (c *ServerConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("remote: server config must have a non-empty name")
	}
	if !c.Transport.Valid() {
		return fmt.Errorf("remote: unknown transport %q for server %q", c.Transport, c.Name)
	}
	if c.Transport == TransportStdio && strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("remote: stdio server %q requires a non-empty command", c.Name)
	}
	if c.Transport == TransportStreamableHTTP && c.URL == "" {
		return fmt.Errorf("remote: http server %q requires a non-empty url", c.Name)
	}
	return nil
}

// Server is a registry.Provider backed by a live MCP client session. Create
// with New, then Connect before registering; the imported catalog is frozen
// from then on.
type Server struct {
	cfg    ServerConfig
	client *mcpsdk.Client

	mu      sync.RWMutex
	session *mcpsdk.ClientSession
	tools   map[string]registry.ToolSchema
	order   []string
}

var _ registry.Provider = (*Server)(nil)

// New creates an unconnected remote server from config.
func New(cfg ServerConfig) *Server {
	client := mcpsdk.NewClient(
		&mcpsdk.Implementation{Name: "toolscope-remote", Version: "1.0.0"},
		nil,
	)
	return &Server{
		cfg:    cfg,
		client: client,
		tools:  make(map[string]registry.ToolSchema),
	}
}

// Connect establishes the session and imports the server's tool catalog.
func (s *Server) Connect(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	var transport mcpsdk.Transport
	switch s.cfg.Transport {
	case TransportStdio:
		transport = &mcpsdk.CommandTransport{Command: buildCommand(ctx, s.cfg)}
	case TransportStreamableHTTP:
		transport = &mcpsdk.StreamableClientTransport{Endpoint: s.cfg.URL}
	}

	session, err := s.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("remote: failed to connect to server %q: %w", s.cfg.Name, err)
	}

	var discovered []mcpsdk.Tool
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			_ = session.Close()
			return fmt.Errorf("remote: failed to list tools for server %q: %w", s.cfg.Name, err)
		}
		discovered = append(discovered, *tool)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		_ = s.session.Close()
	}
	s.session = session
	s.tools = make(map[string]registry.ToolSchema, len(discovered))
	s.order = s.order[:0]
	for _, t := range discovered {
		s.tools[t.Name] = buildSchema(s.cfg.Name, t)
		s.order = append(s.order, t.Name)
	}
	return nil
}

// Close shuts down the session.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}

// Name returns the configured server name.
func (s *Server) Name() string {
	return s.cfg.Name
}

// Description returns the configured description.
func (s *Server) Description() string {
	return s.cfg.Description
}

// ToolNames returns the imported catalog in discovery order.
func (s *Server) ToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Schema returns the schema derived from the collaborator's tool listing.
func (s *Server) Schema(tool string) (registry.ToolSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schema, ok := s.tools[tool]
	if !ok {
		return registry.ToolSchema{}, &registry.NotFoundError{Server: s.cfg.Name, Tool: tool}
	}
	return schema, nil
}

// Invoke forwards a tool call over the session. Collaborator-reported
// failures (IsError results) surface as errors, which the proxy layer
// normalizes into structured failure values.
func (s *Server) Invoke(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	s.mu.RLock()
	session := s.session
	_, known := s.tools[tool]
	s.mu.RUnlock()

	if session == nil {
		return nil, fmt.Errorf("remote: server %q is not connected", s.cfg.Name)
	}
	if !known {
		return nil, &registry.NotFoundError{Server: s.cfg.Name, Tool: tool}
	}

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("remote: call to %s:%s failed: %w", s.cfg.Name, tool, err)
	}
	if result.IsError {
		return nil, fmt.Errorf("remote: %s:%s reported failure: %s", s.cfg.Name, tool, textContent(result))
	}

	if structured, ok := toResultMap(result.StructuredContent); ok {
		return structured, nil
	}
	return map[string]any{"success": true, "content": textContent(result)}, nil
}

// ConnectAll connects several remote servers concurrently. On error the
// already-connected servers are closed.
func ConnectAll(ctx context.Context, servers []*Server) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			return srv.Connect(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		for _, srv := range servers {
			_ = srv.Close()
		}
		return err
	}
	return nil
}

// buildSchema converts an MCP tool listing into the registry schema shape.
// The input schema goes through a JSON round-trip so the conversion does not
// depend on the SDK's schema representation.
func buildSchema(server string, t mcpsdk.Tool) registry.ToolSchema {
	schema := registry.ToolSchema{
		Name:    t.Name,
		Server:  server,
		Summary: firstLine(t.Description),
		Doc:     t.Description,
	}

	raw := schemaToMap(t.InputSchema)
	props, _ := raw["properties"].(map[string]any)
	required := map[string]bool{}
	if reqList, ok := raw["required"].([]any); ok {
		for _, r := range reqList {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}
	for _, name := range sortedKeys(props) {
		prop, _ := props[name].(map[string]any)
		p := registry.Param{
			Name:     name,
			Type:     "any",
			Required: required[name],
		}
		if typ, ok := prop["type"].(string); ok {
			p.Type = typ
		}
		if desc, ok := prop["description"].(string); ok {
			p.Description = desc
		}
		if def, ok := prop["default"]; ok {
			p.Default = def
		}
		schema.Params = append(schema.Params, p)
	}
	return schema
}

// schemaToMap normalizes any schema representation into a plain map.
func schemaToMap(schema any) map[string]any {
	if schema == nil {
		return map[string]any{"type": "object"}
	}
	if m, ok := schema.(map[string]any); ok {
		return m
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"type": "object"}
	}
	return m
}

// toResultMap converts structured content into the collaborator result map.
func toResultMap(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}

// textContent concatenates the text parts of a call result.
func textContent(result *mcpsdk.CallToolResult) string {
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// firstLine trims a description to its first line for summary output.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// buildCommand constructs the stdio subprocess for a server config. Extra
// env entries extend the parent environment; a non-nil exec.Cmd.Env replaces
// the inherited environment entirely, so the parent's variables must be
// copied in first or the child loses PATH, HOME, and friends.
func buildCommand(ctx context.Context, cfg ServerConfig) *exec.Cmd {
	executable, args := splitCommand(cfg.Command)
	cmd := exec.CommandContext(ctx, executable, args...)
	if len(cfg.Env) > 0 {
		env := os.Environ()
		for k, v := range cfg.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}
	return cmd
}

// splitCommand splits a command string on whitespace into executable + args.
func splitCommand(command string) (executable string, args []string) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

// sortedKeys returns map keys sorted for reproducible schemas; the wire
// format does not preserve property order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
