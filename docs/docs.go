// Package docs renders tool documentation at progressive detail levels.
//
// The loader is the second tier of progressive disclosure: after discovering
// server names through the registry, a caller fetches documentation for one
// server or one tool, paying only for the detail level it asks for. Summary
// output is a single line; full output adds the complete parameter schema and
// return contract.
//
// Rendering is pure: the same arguments always produce the same text, and no
// state is touched. Unknown names produce registry.NotFoundError.
package docs

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/toolscope/registry"
)

// DetailLevel selects how much documentation Describe returns.
type DetailLevel string

// Supported detail levels.
const (
	// DetailSummary returns the tool name and one-line purpose only.
	DetailSummary DetailLevel = "summary"

	// DetailFull returns the complete parameter schema and return contract.
	DetailFull DetailLevel = "full"
)

// Valid reports whether the level is one of the supported values.
func (l DetailLevel) Valid() bool {
	return l == DetailSummary || l == DetailFull
}

// Loader renders documentation for registered tools. It holds only a
// reference to the immutable registry and is safe for concurrent use.
type Loader struct {
	reg *registry.Registry
}

// NewLoader creates a Loader over the given registry.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{reg: reg}
}

// Describe renders documentation for a server or, when tool is non-empty,
// for a single tool at the given detail level. This is the single entry
// point the sandbox helper surface binds to.
func (l *Loader) Describe(server, tool string, level DetailLevel) (string, error) {
	if tool == "" {
		return l.DescribeServer(server)
	}
	return l.DescribeTool(server, tool, level)
}

// DescribeServer returns the server's description and its tool list with
// one-line summaries. This is the cheap per-server overview.
func (l *Loader) DescribeServer(server string) (string, error) {
	entry, err := l.reg.Get(server)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", entry.Name, entry.Description)
	if len(entry.ToolNames) == 0 {
		b.WriteString("(no tools)\n")
		return b.String(), nil
	}
	b.WriteString("tools:\n")
	for _, tool := range entry.ToolNames {
		schema, err := entry.Provider().Schema(tool)
		if err != nil {
			// A registered tool name must resolve; surface the mismatch
			// instead of silently dropping the entry.
			return "", fmt.Errorf("docs: schema for %s:%s: %w", server, tool, err)
		}
		fmt.Fprintf(&b, "  %s — %s\n", schema.Name, schema.Summary)
	}
	return b.String(), nil
}

// DescribeTool returns documentation for a single tool at the given detail
// level. Summary output is always a prefix of full output, so detail is
// monotonic: full is never shorter than summary.
func (l *Loader) DescribeTool(server, tool string, level DetailLevel) (string, error) {
	if !level.Valid() {
		return "", fmt.Errorf("docs: unknown detail level %q (want %q or %q)", level, DetailSummary, DetailFull)
	}
	entry, err := l.reg.Get(server)
	if err != nil {
		return "", err
	}
	if !l.reg.HasTool(server, tool) {
		return "", &registry.NotFoundError{Server: server, Tool: tool}
	}
	schema, err := entry.Provider().Schema(tool)
	if err != nil {
		return "", err
	}

	summary := fmt.Sprintf("%s:%s — %s\n", server, schema.Name, schema.Summary)
	if level == DetailSummary {
		return summary, nil
	}

	var b strings.Builder
	b.WriteString(summary)
	if schema.Doc != "" {
		b.WriteString(schema.Doc)
		if !strings.HasSuffix(schema.Doc, "\n") {
			b.WriteString("\n")
		}
	}
	if len(schema.Params) == 0 {
		b.WriteString("parameters: none\n")
	} else {
		b.WriteString("parameters:\n")
		for _, p := range schema.Params {
			b.WriteString("  " + renderParam(p) + "\n")
		}
	}
	if schema.Returns != "" {
		fmt.Fprintf(&b, "returns: %s\n", schema.Returns)
	}
	return b.String(), nil
}

// renderParam formats one parameter line for full detail output.
func renderParam(p registry.Param) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s", p.Name, p.Type)
	if p.Required {
		b.WriteString(", required")
	} else {
		b.WriteString(", optional")
		if p.Default != nil {
			fmt.Fprintf(&b, ", default=%v", p.Default)
		}
	}
	b.WriteString(")")
	if p.Description != "" {
		b.WriteString(": " + p.Description)
	}
	return b.String()
}
