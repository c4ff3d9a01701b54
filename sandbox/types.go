package sandbox

import "time"

// ToolCallRecord captures information about a single proxy invocation during
// snippet execution. It records the binding, arguments, result, and timing
// for observability and debugging.
type ToolCallRecord struct {
	// Server is the bound server name.
	Server string `json:"server"`

	// Tool is the bound tool name.
	Tool string `json:"tool"`

	// Args contains the arguments passed to the tool.
	Args map[string]any `json:"args,omitempty"`

	// Result contains the structured result returned by the tool,
	// including normalized failure results.
	Result map[string]any `json:"result,omitempty"`

	// Error contains the underlying error message if the call failed.
	Error string `json:"error,omitempty"`

	// DurationMs is the call time in milliseconds.
	DurationMs int64 `json:"durationMs"`
}

// ExecuteParams specifies the parameters for executing a snippet.
type ExecuteParams struct {
	// Code is the source code to execute.
	Code string `json:"code"`

	// Timeout specifies the wall-clock budget for the execution.
	// If zero, the executor's default timeout is used.
	Timeout time.Duration `json:"timeout"`

	// MaxToolCalls limits the number of proxy invocations allowed.
	// If zero, the executor's configured limit applies (or unlimited if none).
	MaxToolCalls int `json:"maxToolCalls,omitempty"`
}

// ExecuteResult contains the outcome of executing a snippet.
type ExecuteResult struct {
	// Value is the final result of the execution: the snippet's `result`
	// variable if assigned, otherwise the script completion value.
	Value any `json:"value,omitempty"`

	// Output contains everything written via println or console during the
	// execution, including partial output captured before a fault or timeout.
	Output string `json:"output,omitempty"`

	// ToolCalls records all proxy invocations made during execution.
	ToolCalls []ToolCallRecord `json:"toolCalls,omitempty"`

	// DurationMs is the total execution time in milliseconds.
	DurationMs int64 `json:"durationMs"`
}
