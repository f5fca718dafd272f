package logging

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the record queue length used when none is configured.
const DefaultBufferSize = 1024

type queued struct {
	h   slog.Handler
	ctx context.Context
	r   slog.Record
}

type asyncState struct {
	queue   chan queued
	done    chan struct{}
	dropped atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// AsyncHandler hands records to a background goroutine so that logging never blocks the
// caller. When the queue is full the record is dropped and counted. After Close, records are
// written synchronously.
type AsyncHandler struct {
	next  slog.Handler
	state *asyncState
}

var _ slog.Handler = (*AsyncHandler)(nil)

// NewAsyncHandler starts the background writer for next.
func NewAsyncHandler(next slog.Handler, bufferSize int) *AsyncHandler {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	st := &asyncState{
		queue: make(chan queued, bufferSize),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(st.done)
		for q := range st.queue {
			_ = q.h.Handle(q.ctx, q.r)
		}
	}()
	return &AsyncHandler{next: next, state: st}
}

// Enabled reports whether the wrapped handler accepts level.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle enqueues r without blocking.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	h.state.mu.RLock()
	defer h.state.mu.RUnlock()
	if h.state.closed {
		return h.next.Handle(ctx, r)
	}

	select {
	case h.state.queue <- queued{h: h.next, ctx: context.WithoutCancel(ctx), r: r.Clone()}:
	default:
		h.state.dropped.Add(1)
	}
	return nil
}

// WithAttrs returns a handler sharing the same queue.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), state: h.state}
}

// WithGroup returns a handler sharing the same queue.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), state: h.state}
}

// Dropped returns the number of records discarded because the queue was full.
func (h *AsyncHandler) Dropped() uint64 {
	return h.state.dropped.Load()
}

// Close stops accepting queued records and waits until the queue is drained. It is safe to
// call more than once.
func (h *AsyncHandler) Close() {
	h.state.mu.Lock()
	if !h.state.closed {
		h.state.closed = true
		close(h.state.queue)
	}
	h.state.mu.Unlock()
	<-h.state.done
}
