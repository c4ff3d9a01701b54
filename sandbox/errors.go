package sandbox

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrCodeExecution indicates an error during snippet execution, such as
	// a syntax error or an uncaught runtime exception in the snippet.
	ErrCodeExecution = errors.New("code execution error")

	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrLimitExceeded indicates that an execution limit was reached, such
	// as the maximum number of tool calls.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrTimeout indicates the wall-clock budget was exceeded and the
	// execution was abandoned.
	ErrTimeout = errors.New("execution timed out")
)

// CodeError represents an error that occurred during snippet execution.
// It includes optional source location information for debugging.
type CodeError struct {
	// Message describes the error.
	Message string

	// Line is the 1-based line number where the error occurred.
	// Zero indicates the line is unknown.
	Line int

	// Column is the 1-based column number where the error occurred.
	// Zero indicates the column is unknown.
	Column int

	// Err is the underlying error, if any.
	Err error
}

// Error returns the error message, including line and column if available.
func (e *CodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, col %d)", e.Message, e.Line, e.Column)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CodeError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// CodeError matches ErrCodeExecution to allow sentinel-style error checking.
func (e *CodeError) Is(target error) bool {
	return target == ErrCodeExecution
}
