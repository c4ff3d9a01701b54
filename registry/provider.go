package registry

import "context"

// Provider is the contract every tool server must satisfy to be registered.
// It is a closed, typed boundary: the runtime resolves tools by key lookup
// through this interface rather than by runtime introspection of the
// implementing value.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Invoke must honor cancellation/deadlines and be safely
//   abandon-able; the runtime may stop waiting without notifying the provider.
// - Errors: Schema returns an error for unknown tool names; Invoke returns an
//   error for unknown tools, invalid arguments, or implementation failures.
// - Ownership: args are read-only; returned maps are caller-owned.
type Provider interface {
	// Name returns the unique server name.
	Name() string

	// Description returns the one-line server description shown by discovery.
	Description() string

	// ToolNames returns the ordered list of tool names this server exposes.
	ToolNames() []string

	// Schema returns the schema for a single tool.
	Schema(tool string) (ToolSchema, error)

	// Invoke executes a tool with keyword-style arguments and returns its
	// structured result. The result map includes at least a success indicator
	// when the provider follows the collaborator convention.
	Invoke(ctx context.Context, tool string, args map[string]any) (map[string]any, error)
}

// Param describes a single tool parameter.
type Param struct {
	// Name is the parameter name.
	Name string `json:"name"`

	// Type is the semantic type, e.g. "string", "integer", "object".
	Type string `json:"type"`

	// Required reports whether the parameter must be supplied.
	Required bool `json:"required"`

	// Default is the value used when an optional parameter is omitted.
	// Nil means no default.
	Default any `json:"default,omitempty"`

	// Description is the free-text parameter description.
	Description string `json:"description,omitempty"`
}

// ToolSchema describes one tool: its parameters, return contract, and
// documentation at two detail levels. Schemas are derived on demand and
// shared by value; they are never persisted.
type ToolSchema struct {
	// Name is the tool name.
	Name string `json:"name"`

	// Server is the owning server name.
	Server string `json:"server"`

	// Summary is the one-line purpose of the tool.
	Summary string `json:"summary"`

	// Doc is the long-form documentation text, if any.
	Doc string `json:"doc,omitempty"`

	// Params is the ordered parameter list.
	Params []Param `json:"params,omitempty"`

	// Returns describes the shape of the tool's result.
	Returns string `json:"returns,omitempty"`
}
