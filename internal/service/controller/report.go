package controller

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater/storage"

	"github.com/atlanticdynamic/scriptsvc/internal/result"
	"github.com/atlanticdynamic/scriptsvc/internal/worker"
)

// RunReport summarizes one worker run for diagnostics.
type RunReport struct {
	ID       uuid.UUID
	Script   string
	Outcome  worker.Outcome
	Err      error
	ExitCode uint32
	Started  time.Time
	Duration time.Duration
	Results  *result.Set
	Trace    []storage.Record
}

func reportFromHandle(h *worker.Handle, started time.Time, exitCode uint32) *RunReport {
	rs, _ := h.Results()
	return &RunReport{
		ID:       h.ID(),
		Script:   h.Source().Name,
		Outcome:  h.Outcome(),
		Err:      h.Err(),
		ExitCode: exitCode,
		Started:  started,
		Duration: h.Duration(),
		Results:  rs,
		Trace:    h.TraceHistory(),
	}
}
