//go:build windows

package winsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/debug"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
	"github.com/atlanticdynamic/scriptsvc/internal/service/finitestate"
)

// IsWindowsService reports whether the process was started by the SCM.
func IsWindowsService() (bool, error) {
	return svc.IsWindowsService()
}

// Run hands the process to the SCM and blocks until the service stops.
func Run(opts RunOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	var elog debug.Log
	if opts.Debug {
		elog = debug.New(opts.Name)
	} else {
		l, err := eventlog.Open(opts.Name)
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		elog = l
	}
	defer elog.Close()

	h := &handler{
		ctrl:   opts.Controller,
		relay:  opts.Relay,
		logger: slog.New(NewEventLogHandler(elog, slog.LevelInfo)).With("service", opts.Name),
	}

	run := svc.Run
	if opts.Debug {
		run = debug.Run
	}
	h.logger.Info("Service dispatcher starting")
	if err := run(opts.Name, h); err != nil {
		h.logger.Error("Service failed", "error", err)
		return err
	}
	h.logger.Info("Service dispatcher stopped")
	return nil
}

type handler struct {
	ctrl   *controller.Controller
	relay  *Relay
	logger *slog.Logger
}

func (h *handler) Execute(
	_ []string,
	r <-chan svc.ChangeRequest,
	changes chan<- svc.Status,
) (bool, uint32) {
	detach := h.relay.Attach(withoutStopped(controller.ReporterFunc(func(s controller.Status) {
		changes <- toSvcStatus(s)
	})))
	defer detach()

	ctx := context.Background()
	if _, err := h.ctrl.Control(ctx, controller.CmdStart); err != nil {
		h.logger.Error("Failed to start script", "error", err)
		return true, controller.ExitCompileError
	}
	h.logger.Info("Service started")

	done := h.ctrl.Done()
	for {
		select {
		case <-done:
			return h.exit()
		case c := <-r:
			switch c.Cmd {
			case svc.Interrogate:
				changes <- toSvcStatus(h.ctrl.Status())
			case svc.Stop, svc.Shutdown:
				cmd := controller.CmdStop
				if c.Cmd == svc.Shutdown {
					cmd = controller.CmdShutdown
				}
				h.logger.Info("Received control request", "command", cmd)
				if _, err := h.ctrl.Control(ctx, cmd); err != nil {
					h.logger.Error("Stop did not complete", "error", err)
				}
				<-done
				return h.exit()
			default:
				h.logger.Warn("Unexpected control request", "command", uint32(c.Cmd))
			}
		}
	}
}

func (h *handler) exit() (bool, uint32) {
	code := h.ctrl.ExitCode()
	if run := h.ctrl.LastRun(); run != nil && run.Err != nil {
		h.logger.Error("Service stopped", "exitCode", code, "error", run.Err)
	} else {
		h.logger.Info("Service stopped", "exitCode", code)
	}
	return code != controller.ExitOK, code
}

func toSvcStatus(s controller.Status) svc.Status {
	out := svc.Status{
		CheckPoint: s.Checkpoint,
		WaitHint:   uint32(s.WaitHint / time.Millisecond),
	}
	switch s.State {
	case finitestate.StatusStartPending:
		out.State = svc.StartPending
	case finitestate.StatusRunning:
		out.State = svc.Running
	case finitestate.StatusStopPending:
		out.State = svc.StopPending
	default:
		out.State = svc.Stopped
		if s.ExitCode != controller.ExitOK {
			out.Win32ExitCode = uint32(windows.ERROR_SERVICE_SPECIFIC_ERROR)
			out.ServiceSpecificExitCode = s.ExitCode
		}
	}
	if s.Accepts&controller.AcceptStop != 0 {
		out.Accepts |= svc.AcceptStop
	}
	if s.Accepts&controller.AcceptShutdown != 0 {
		out.Accepts |= svc.AcceptShutdown
	}
	return out
}

func startType(t StartType) uint32 {
	switch t {
	case StartManual:
		return mgr.StartManual
	case StartDisabled:
		return mgr.StartDisabled
	default:
		return mgr.StartAutomatic
	}
}

// Install registers the service with the SCM and creates its event log source.
func Install(opts InstallOptions) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer func() { _ = m.Disconnect() }()

	if s, err := m.OpenService(opts.Name); err == nil {
		_ = s.Close()
		return fmt.Errorf("%w: %s", ErrServiceExists, opts.Name)
	}

	s, err := m.CreateService(opts.Name, opts.ExePath, mgr.Config{
		DisplayName: opts.DisplayName,
		Description: opts.Description,
		StartType:   startType(opts.StartType),
	}, opts.Args...)
	if err != nil {
		return fmt.Errorf("failed to create service %s: %w", opts.Name, err)
	}
	defer func() { _ = s.Close() }()

	if err := eventlog.InstallAsEventCreate(opts.Name, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		return errors.Join(
			fmt.Errorf("failed to install event log source: %w", err),
			s.Delete(),
		)
	}
	return nil
}

// Remove unregisters the service and its event log source.
func Remove(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer func() { _ = m.Disconnect() }()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	defer func() { _ = s.Close() }()

	if err := s.Delete(); err != nil {
		return fmt.Errorf("failed to delete service %s: %w", name, err)
	}
	if err := eventlog.Remove(name); err != nil {
		return fmt.Errorf("failed to remove event log source: %w", err)
	}
	return nil
}

// Start asks the SCM to start the service.
func Start(name string, args ...string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer func() { _ = m.Disconnect() }()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	defer func() { _ = s.Close() }()

	if err := s.Start(args...); err != nil {
		return fmt.Errorf("failed to start service %s: %w", name, err)
	}
	return nil
}

// Stop sends a stop control and waits up to timeout for the service to reach Stopped.
func Stop(name string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultControlTimeout
	}
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer func() { _ = m.Disconnect() }()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	defer func() { _ = s.Close() }()

	status, err := s.Control(svc.Stop)
	if err != nil {
		return fmt.Errorf("failed to send stop to %s: %w", name, err)
	}
	deadline := time.Now().Add(timeout)
	for status.State != svc.Stopped {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s still in state %d", ErrControlTimeout, name, status.State)
		}
		time.Sleep(300 * time.Millisecond)
		if status, err = s.Query(); err != nil {
			return fmt.Errorf("failed to query service %s: %w", name, err)
		}
	}
	return nil
}
