// Package errz holds the error taxonomy shared by the worker, the result accessors and the
// service controller. Callers wrap these sentinels with context and match them with errors.Is.
package errz

import "errors"

// Script lifecycle errors.
var (
	// ErrCompile is returned when the script text cannot be parsed or compiled by the engine.
	ErrCompile = errors.New("compile error")

	// ErrRuntime is returned when the script fails during execution.
	ErrRuntime = errors.New("runtime error")

	// ErrStopped marks a run that was aborted because the stop signal was observed.
	ErrStopped = errors.New("run stopped")

	// ErrInvalidState is returned when a handle operation is called out of order.
	ErrInvalidState = errors.New("invalid handle state")
)

// Result access errors.
var (
	ErrIndexOutOfRange    = errors.New("result index out of range")
	ErrFieldNotFound      = errors.New("result field not found")
	ErrTypeMismatch       = errors.New("result type mismatch")
	ErrResultsUnavailable = errors.New("results unavailable")
)

// Service control errors.
var (
	// ErrServiceControl is returned for control requests the controller cannot honor.
	ErrServiceControl = errors.New("service control error")

	// ErrWatchdogTimeout is returned when the worker ignores the stop signal past the stop timeout.
	ErrWatchdogTimeout = errors.New("watchdog timeout")
)
