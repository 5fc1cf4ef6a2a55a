package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrPathNotAllowed is returned when a script outside the allowed
	// directories is loaded.
	ErrPathNotAllowed = errors.New("script path not allowed")
)
