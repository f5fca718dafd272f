package winsvc

import (
	"sync"

	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
	"github.com/atlanticdynamic/scriptsvc/internal/service/finitestate"
)

var _ controller.Reporter = (*Relay)(nil)

// Relay forwards controller status reports to whichever reporter is attached, or to the
// fallback when none is. The SCM status channel only exists while the service handler runs,
// so the handler attaches itself for that span.
type Relay struct {
	mu       sync.Mutex
	target   controller.Reporter
	fallback controller.Reporter
}

// NewRelay creates a Relay. fallback may be nil.
func NewRelay(fallback controller.Reporter) *Relay {
	return &Relay{fallback: fallback}
}

// ReportStatus implements controller.Reporter.
func (r *Relay) ReportStatus(s controller.Status) {
	r.mu.Lock()
	target := r.target
	if target == nil {
		target = r.fallback
	}
	r.mu.Unlock()
	if target != nil {
		target.ReportStatus(s)
	}
}

// Attach routes reports to target until the returned function is called.
func (r *Relay) Attach(target controller.Reporter) (detach func()) {
	r.mu.Lock()
	r.target = target
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.target = nil
	}
}

// withoutStopped drops the terminal Stopped status. The SCM dispatcher reports Stopped itself
// with the exit code returned from Execute, so forwarding it would report it twice.
func withoutStopped(target controller.Reporter) controller.Reporter {
	return controller.ReporterFunc(func(s controller.Status) {
		if s.State == finitestate.StatusStopped {
			return
		}
		target.ReportStatus(s)
	})
}
