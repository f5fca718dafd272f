package winsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
	"github.com/atlanticdynamic/scriptsvc/internal/service/finitestate"
)

func TestRelay(t *testing.T) {
	var fallback, attached []string
	r := NewRelay(controller.ReporterFunc(func(s controller.Status) {
		fallback = append(fallback, s.State)
	}))

	r.ReportStatus(controller.Status{State: "a"})
	detach := r.Attach(controller.ReporterFunc(func(s controller.Status) {
		attached = append(attached, s.State)
	}))
	r.ReportStatus(controller.Status{State: "b"})
	detach()
	r.ReportStatus(controller.Status{State: "c"})

	assert.Equal(t, []string{"a", "c"}, fallback)
	assert.Equal(t, []string{"b"}, attached)
}

func TestRelay_NilFallback(t *testing.T) {
	r := NewRelay(nil)
	assert.NotPanics(t, func() { r.ReportStatus(controller.Status{State: "x"}) })
}

func TestWithoutStopped(t *testing.T) {
	var got []string
	r := NewRelay(nil)
	detach := r.Attach(withoutStopped(controller.ReporterFunc(func(s controller.Status) {
		got = append(got, s.State)
	})))
	defer detach()

	for _, state := range []string{
		finitestate.StatusStartPending,
		finitestate.StatusRunning,
		finitestate.StatusStopPending,
		finitestate.StatusStopPending,
		finitestate.StatusStopped,
	} {
		r.ReportStatus(controller.Status{State: state, ExitCode: controller.ExitRuntimeError})
	}

	assert.Equal(t, []string{
		finitestate.StatusStartPending,
		finitestate.StatusRunning,
		finitestate.StatusStopPending,
		finitestate.StatusStopPending,
	}, got)
}
