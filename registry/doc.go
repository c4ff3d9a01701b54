// Package registry provides the tool server catalog for the toolscope runtime.
//
// The registry maps a server name to its discovery metadata: a description,
// an ordered list of tool names, and the provider that implements them. It is
// the near-zero-cost discovery surface: listing servers returns names and
// descriptions only, never schemas, so the cost of discovery does not grow
// with the size of any server's tool catalog.
//
// # Immutability
//
// A Registry is an immutable snapshot. It is assembled once at process start
// through a [Builder] and is safe for unsynchronized concurrent reads for the
// rest of the process lifetime. Future dynamic registration should produce a
// new snapshot rather than mutate an existing one.
//
// # Providers
//
// Any value implementing [Provider] can act as a tool server: it exposes its
// name, description, ordered tool names, per-tool schemas, and an Invoke
// method. The provider value stored in a [ServerEntry] is the opaque locator
// the proxy layer resolves at call time.
//
// # Errors
//
// Lookups for unknown server or tool names return [*NotFoundError], a
// structured error that sandboxed code can branch on. The registry never
// panics on unknown names.
package registry
