package diagnostics

import (
	"log/slog"
	"time"

	"github.com/robbyt/go-loglater/storage"
)

const timeFormat = time.RFC3339Nano

type traceEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

func convertRecords(records []storage.Record) []traceEntry {
	out := make([]traceEntry, 0, len(records))
	for _, rec := range records {
		out = append(out, convertRecord(rec))
	}
	return out
}

func convertRecord(rec storage.Record) traceEntry {
	e := traceEntry{
		Time:    rec.Time.UTC().Format(timeFormat),
		Level:   rec.Level.String(),
		Message: rec.Message,
	}
	if len(rec.Attrs) > 0 {
		e.Attrs = make(map[string]any, len(rec.Attrs))
		for _, a := range rec.Attrs {
			addAttr(e.Attrs, a)
		}
	}
	return e
}

func addAttr(m map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := make(map[string]any)
		for _, ga := range v.Group() {
			addAttr(group, ga)
		}
		if a.Key == "" {
			for k, gv := range group {
				m[k] = gv
			}
			return
		}
		m[a.Key] = group
	case slog.KindDuration:
		m[a.Key] = v.Duration().String()
	case slog.KindTime:
		m[a.Key] = v.Time().UTC().Format(timeFormat)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			m[a.Key] = err.Error()
			return
		}
		m[a.Key] = v.Any()
	default:
		m[a.Key] = v.Any()
	}
}
