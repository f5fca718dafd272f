package worker

import (
	"log/slog"

	"github.com/gofrs/uuid/v5"

	"github.com/atlanticdynamic/scriptsvc/internal/stopsignal"
)

// Option configures a Handle.
type Option func(*Handle)

// WithLogHandler sets the handler that trace output is forwarded to.
func WithLogHandler(handler slog.Handler) Option {
	return func(h *Handle) {
		if handler != nil {
			h.baseHandler = handler
		}
	}
}

// WithStopSignal shares a stop signal with the caller, typically the service controller.
func WithStopSignal(sig *stopsignal.Signal) Option {
	return func(h *Handle) {
		if sig != nil {
			h.signal = sig
		}
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id uuid.UUID) Option {
	return func(h *Handle) {
		if id != uuid.Nil {
			h.id = id
		}
	}
}
