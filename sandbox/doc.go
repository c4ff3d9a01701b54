// Package sandbox executes caller-supplied code snippets under a restricted
// capability set with access to the tool discovery and invocation helpers.
//
// sandbox sits on top of registry, docs, search, and proxy to provide the
// progressive-disclosure execution environment: submitted code discovers
// server names at near-zero cost, fetches a single tool's schema only when it
// intends to use it, and invokes tools through lazily resolved proxies.
//
// # Architecture
//
// The package defines three main pieces:
//
//   - [Env]: the helper environment injected into snippets, providing the
//     list_servers, get_tool_names, describe, search, create_proxy, and
//     println functions, and recording a [ToolCallRecord] for every proxy
//     invocation.
//
//   - [Engine]: the pluggable interpreter that runs snippets with access to
//     the Env. [JSEngine] is the default, an embedded ECMAScript interpreter.
//
//   - [Executor]: the entry point that applies defaults, enforces the
//     wall-clock budget and tool-call limit, and collects results.
//
// # Security model
//
// Restriction is structural, not textual: the interpreter has no file,
// process, or network intrinsics, and the only non-inert globals are the
// injected helpers. Nothing is pattern-matched out of the source; forbidden
// capabilities are simply never present in the execution scope. The inert
// allow-list is the interpreter's built-in data utilities (JSON, Math,
// String, Array, Object, Number, Date, RegExp); eval and the Function
// constructor are removed, including the constructor slots on the function
// prototypes that would otherwise reach the Function intrinsic.
//
// # Execution lifecycle
//
// An execution moves Idle → Running → one of Completed, TimedOut, Faulted.
// Faults (syntax or runtime errors in the snippet) are captured as
// [*CodeError] values and terminate only the current execution. On timeout
// the execution is forcibly abandoned: outstanding tool calls observe
// context cancellation, and no result value is reported, though output
// captured before the deadline is preserved.
//
// # Result Convention
//
// Snippets may assign their final value to the `result` variable; otherwise
// the script's completion value is used.
package sandbox
