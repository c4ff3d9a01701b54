package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by all NotFoundError values.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an unknown server or tool name. It is a structured,
// recoverable condition: sandboxed code receives it as a value it can branch
// on, never as an uncontrolled fault.
type NotFoundError struct {
	// Server is the server name that was looked up.
	Server string

	// Tool is the tool name that was looked up, empty for server lookups.
	Tool string
}

// Error returns the message, including a discovery hint.
func (e *NotFoundError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("tool %q not found on server %q; call list_servers() or search() to discover available tools", e.Tool, e.Server)
	}
	return fmt.Sprintf("server %q not found; call list_servers() to discover available servers", e.Server)
}

// Is reports whether this error matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
