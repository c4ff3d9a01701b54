package sandbox

import "context"

// Engine is the pluggable interpreter that runs snippets with access to the
// helper environment. Implementations are responsible for parsing and
// executing the code under the structural capability restrictions described
// in the package documentation.
//
// The Engine should:
//   - Execute the code with only the Env helpers and inert data utilities
//     in scope
//   - Capture the final result (the `result` variable convention, falling
//     back to the script completion value)
//   - Wrap snippet failures in CodeError with line/column info when available
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; each
//   execution gets a fresh interpreter instance.
// - Context: must honor cancellation/deadlines and return the context's
//   error when an interrupt ends the run; the executor reports deadline
//   expiry as ErrTimeout.
// - Errors: snippet failures should return CodeError where possible; callers
//   use errors.Is.
// - Ownership: params and env are read-only for the engine beyond the
//   recording methods env exposes; the returned ExecuteResult is caller-owned.
type Engine interface {
	// Execute runs a snippet with access to the helper environment. It
	// returns the execution result including the final value and any errors
	// encountered. Output and tool call traces are collected by the caller
	// from env.
	Execute(ctx context.Context, params ExecuteParams, env *Env) (ExecuteResult, error)
}
