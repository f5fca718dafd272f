// Package stopsignal provides the cancellation token shared between the service controller
// (the only writer) and the worker execution loop (the reader).
package stopsignal

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStopRequested is the cancellation cause attached to contexts bound to a stopped Signal.
var ErrStopRequested = errors.New("stop requested")

// Signal is a one-way false→true flag. The zero value is not usable, use New.
type Signal struct {
	stopped atomic.Bool
	ctx     context.Context
	cancel  context.CancelCauseFunc
}

// New returns a Signal in the not-stopped state.
func New() *Signal {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Signal{ctx: ctx, cancel: cancel}
}

// Stop sets the flag. It returns true only for the call that performed the transition.
func (s *Signal) Stop() bool {
	if !s.stopped.CompareAndSwap(false, true) {
		return false
	}
	s.cancel(ErrStopRequested)
	return true
}

// Stopped reports whether Stop has been called.
func (s *Signal) Stopped() bool {
	return s.stopped.Load()
}

// Done returns a channel that is closed once Stop has been called.
func (s *Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Bind derives a context from parent that is also cancelled, with cause ErrStopRequested,
// when the signal stops. The returned cancel func must be called to release resources.
func (s *Signal) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	stopWatch := context.AfterFunc(s.ctx, func() {
		cancel(ErrStopRequested)
	})
	return ctx, func() {
		stopWatch()
		cancel(context.Canceled)
	}
}
