// Package finitestate holds the lifecycle state machines of the service controller and of a
// worker handle, both backed by go-fsm.
package finitestate

import (
	"context"
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Machine is the subset of go-fsm used by the controller and the worker.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts to transition the state machine to the specified state.
	TransitionBool(state string) bool

	// TransitionIfCurrentState transitions only when the machine is in currentState.
	TransitionIfCurrentState(currentState, newState string) error

	// SetState sets the state of the state machine to the specified state.
	SetState(state string) error

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state whenever it changes.
	// The channel is closed when the provided context is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

var _ Machine = (*fsm.Machine)(nil)

// Service controller states, named after the states reported to the OS service manager.
const (
	StatusStopped      = "Stopped"
	StatusStartPending = "StartPending"
	StatusRunning      = "Running"
	StatusStopPending  = "StopPending"
)

// ServiceTransitions allows a stop while the script is still loading and a direct return to
// Stopped when loading fails.
var ServiceTransitions = map[string][]string{
	StatusStopped:      {StatusStartPending},
	StatusStartPending: {StatusRunning, StatusStopPending, StatusStopped},
	StatusRunning:      {StatusStopPending},
	StatusStopPending:  {StatusStopped},
}

// NewService creates the controller state machine in StatusStopped.
func NewService(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, StatusStopped, ServiceTransitions)
}

// Worker handle states.
const (
	HandleUnloaded = "Unloaded"
	HandleLoaded   = "Loaded"
	HandleRunning  = "Running"
	HandleRan      = "Ran"
	HandleCleaned  = "Cleaned"
)

// HandleTransitions enforces Load, then at most one Run, then exactly one Cleanup. A loaded
// handle may be cleaned up without running.
var HandleTransitions = map[string][]string{
	HandleUnloaded: {HandleLoaded},
	HandleLoaded:   {HandleRunning, HandleCleaned},
	HandleRunning:  {HandleRan},
	HandleRan:      {HandleCleaned},
	HandleCleaned:  {},
}

// NewHandle creates a worker handle state machine in HandleUnloaded.
func NewHandle(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, HandleUnloaded, HandleTransitions)
}
