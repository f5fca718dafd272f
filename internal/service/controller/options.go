package controller

import (
	"log/slog"
	"time"
)

// Option represents a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogHandler sets the handler used by the controller and passed to each worker.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Controller) {
		if handler != nil {
			c.logHandler = handler
			c.logger = slog.New(handler).WithGroup("controller.Controller")
		}
	}
}

// WithName sets the service name used in logs.
func WithName(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.name = name
		}
	}
}

// WithArgs sets the argument vector given to every run.
func WithArgs(args []string) Option {
	return func(c *Controller) {
		c.args = append([]string(nil), args...)
	}
}

// WithStopTimeout bounds how long a stop waits for the worker before the watchdog fires.
func WithStopTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.stopTimeout = d
		}
	}
}

// WithStartWaitHint sets the wait hint reported with StartPending.
func WithStartWaitHint(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.startWaitHint = d
		}
	}
}

// WithReporter sets the status sink.
func WithReporter(r Reporter) Option {
	return func(c *Controller) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithTerminator replaces the watchdog action. The default exits the process.
func WithTerminator(fn func(code uint32)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.terminate = fn
		}
	}
}

// WithFinishHook registers fn to be called after each run has reached Stopped.
func WithFinishHook(fn func(*RunReport)) Option {
	return func(c *Controller) {
		c.onFinish = fn
	}
}
