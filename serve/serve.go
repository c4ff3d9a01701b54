// Package serve exposes the runtime over the Model Context Protocol.
//
// The protocol surface is exactly one tool: execute_code. Every helper
// operation (discovery, schema loading, search, proxies) is reachable only
// from inside the sandboxed snippet, never as a separate protocol operation.
// This is the structural enforcement of zero-context overhead: the external
// surface does not grow as tool servers are added.
package serve

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolscope"
	"github.com/jonwraymond/toolscope/sandbox"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ExecuteInput is the wire request for the execute_code tool.
type ExecuteInput struct {
	// Code is the snippet to execute in the sandbox.
	Code string `json:"code" jsonschema:"Code snippet to execute. Use list_servers(), get_tool_names(server), describe(server, tool, detail), search(query, limit) and create_proxy(server, tool) to discover and call tools. Assign the final value to the 'result' variable."`

	// Timeout is the wall-clock budget in seconds. Zero applies the
	// server's default.
	Timeout int `json:"timeout,omitempty" jsonschema:"Wall-clock budget in seconds; 0 uses the server default."`
}

// ExecuteOutput is the wire response for the execute_code tool. Exactly one
// of Result and Error is meaningful: Error is null on success, and Result is
// null on failure. Both fields are always present so clients can branch on
// them without probing for key existence. Output always reflects what was
// captured up to the point of termination, including partial output on
// timeout or fault.
type ExecuteOutput struct {
	Output         string                   `json:"output"`
	Result         any                      `json:"result"`
	Error          *string                  `json:"error"`
	ElapsedSeconds float64                  `json:"elapsed_seconds"`
	ToolCalls      []sandbox.ToolCallRecord `json:"tool_calls,omitempty"`
}

// Server marshals sandbox executions onto the MCP wire format.
type Server struct {
	ts  *toolscope.Toolscope
	mcp *mcp.Server
}

// New creates an MCP server exposing the runtime's single execute_code tool.
func New(ts *toolscope.Toolscope) *Server {
	s := &Server{ts: ts}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "toolscope",
		Version: Version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "execute_code",
		Description: "Execute a code snippet in a sandboxed environment with progressive-disclosure " +
			"access to registered tool servers. The snippet can discover servers, fetch individual " +
			"tool schemas, and invoke tools through proxies, paying context cost only for what it uses.",
	}, s.handleExecute)

	s.mcp = srv
	return s
}

// handleExecute runs one sandbox execution per tool call. Executions run
// concurrently on independent sandboxes; only the immutable registry is
// shared.
func (s *Server) handleExecute(ctx context.Context, req *mcp.CallToolRequest, in ExecuteInput) (*mcp.CallToolResult, ExecuteOutput, error) {
	params := sandbox.ExecuteParams{
		Code:    in.Code,
		Timeout: time.Duration(in.Timeout) * time.Second,
	}

	result, err := s.ts.Execute(ctx, params)

	out := ExecuteOutput{
		Output:         result.Output,
		ElapsedSeconds: float64(result.DurationMs) / 1000.0,
		ToolCalls:      result.ToolCalls,
	}
	if err != nil {
		msg := err.Error()
		out.Error = &msg
	} else {
		out.Result = result.Value
	}
	return nil, out, nil
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// RunStdio serves MCP over stdin/stdout until the context is cancelled or
// the client disconnects. Logs must go to stderr while this runs.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a streamable-HTTP handler for the server, for mounting
// on an HTTP listener.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}
