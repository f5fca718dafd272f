package winsvc

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// EventLog is the subset of the Windows event log writer used here. It is satisfied by
// eventlog.Log and debug.Log.
type EventLog interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
}

var _ slog.Handler = (*EventLogHandler)(nil)

// EventLogHandler writes slog records to an EventLog as single-line messages.
type EventLogHandler struct {
	log    EventLog
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewEventLogHandler creates a handler that drops records below level.
func NewEventLogHandler(log EventLog, level slog.Leveler) *EventLogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &EventLogHandler{log: log, level: level}
}

// Enabled reports whether level is at or above the configured level.
func (h *EventLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record and writes it with the event type matching its level.
func (h *EventLogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a)
		return true
	})

	msg := b.String()
	switch {
	case r.Level >= slog.LevelError:
		return h.log.Error(EventError, msg)
	case r.Level >= slog.LevelWarn:
		return h.log.Warning(EventWarning, msg)
	default:
		return h.log.Info(EventInfo, msg)
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Any())
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	prefix := strings.Join(h.groups, ".")
	qualified := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		qualified = append(qualified, a)
	}
	h2 := *h
	h2.attrs = append(slices.Clip(h.attrs), qualified...)
	return &h2
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(slices.Clip(h.groups), name)
	return &h2
}
