// Package controller drives a single script worker through the service lifecycle: it owns the
// service state machine, reports every state change, and enforces the stop watchdog.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/errz"
	"github.com/atlanticdynamic/scriptsvc/internal/service/finitestate"
	"github.com/atlanticdynamic/scriptsvc/internal/stopsignal"
	"github.com/atlanticdynamic/scriptsvc/internal/worker"
)

// Interface guards: ensure Controller implements these interfaces
var (
	_ supervisor.Runnable  = (*Controller)(nil)
	_ supervisor.Stateable = (*Controller)(nil)
)

const (
	DefaultStopTimeout   = 30 * time.Second
	DefaultStartWaitHint = 10 * time.Second
)

// SourceFunc returns the script to load. It is called on every start so edits to the script
// file take effect on the next start.
type SourceFunc func() (engine.Source, error)

// StaticSource returns a SourceFunc that always yields src.
func StaticSource(src engine.Source) SourceFunc {
	return func() (engine.Source, error) { return src, nil }
}

// FileSource returns a SourceFunc that reads path on every start.
func FileSource(path string) SourceFunc {
	return func() (engine.Source, error) { return engine.SourceFromFile(path) }
}

// Controller hosts one script as a service.
type Controller struct {
	name          string
	eng           engine.Engine
	source        SourceFunc
	args          []string
	stopTimeout   time.Duration
	startWaitHint time.Duration
	reporter      Reporter
	terminate     func(code uint32)
	onFinish      func(*RunReport)

	logHandler slog.Handler
	logger     *slog.Logger
	fsm        finitestate.Machine

	// mu serializes transitions with their status reports and guards the fields below.
	mu         sync.Mutex
	signal     *stopsignal.Signal
	done       chan struct{}
	exitCode   uint32
	checkpoint uint32
	lastRun    *RunReport

	cancelMu    sync.Mutex
	localCancel context.CancelFunc
}

// New creates a Controller in the Stopped state.
func New(eng engine.Engine, source SourceFunc, opts ...Option) (*Controller, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if source == nil {
		return nil, errors.New("source is required")
	}

	c := &Controller{
		name:          "scriptsvc",
		eng:           eng,
		source:        source,
		stopTimeout:   DefaultStopTimeout,
		startWaitHint: DefaultStartWaitHint,
		logHandler:    slog.Default().Handler(),
		logger:        slog.Default().WithGroup("controller.Controller"),
		done:          make(chan struct{}),
	}
	close(c.done)
	for _, opt := range opts {
		opt(c)
	}
	if c.reporter == nil {
		c.reporter = logReporter(c.logger)
	}
	if c.terminate == nil {
		c.terminate = c.exitProcess
	}

	fsmLogger := c.logger.WithGroup("fsm")
	machine, err := finitestate.NewService(fsmLogger.Handler())
	if err != nil {
		return nil, fmt.Errorf("unable to create fsm: %w", err)
	}
	c.fsm = machine
	return c, nil
}

func logReporter(logger *slog.Logger) Reporter {
	return ReporterFunc(func(s Status) {
		logger.Info("Service status",
			"state", s.State,
			"exitCode", s.ExitCode,
			"checkpoint", s.Checkpoint,
			"waitHint", s.WaitHint)
	})
}

func (c *Controller) exitProcess(code uint32) {
	c.logger.Error("Watchdog terminating process", "exitCode", code)
	os.Exit(int(code))
}

// String returns a string representation of the Controller.
func (c *Controller) String() string {
	return fmt.Sprintf("controller.Controller(%s)", c.name)
}

// Control applies a service control command and returns the resulting status.
func (c *Controller) Control(ctx context.Context, cmd Command) (Status, error) {
	c.logger.Debug("Control request", "command", cmd)
	switch cmd {
	case CmdInterrogate:
		return c.Status(), nil
	case CmdStart:
		return c.start(ctx)
	case CmdStop, CmdShutdown:
		return c.stop(ctx, cmd)
	default:
		return c.Status(), fmt.Errorf("%w: %s not supported", errz.ErrServiceControl, cmd)
	}
}

// Status returns the current status snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	s := Status{State: c.fsm.GetState(), Checkpoint: c.checkpoint}
	switch s.State {
	case finitestate.StatusStartPending:
		s.WaitHint = c.startWaitHint
		s.Accepts = AcceptStop | AcceptShutdown
	case finitestate.StatusRunning:
		s.Accepts = AcceptStop | AcceptShutdown
	case finitestate.StatusStopPending:
		s.WaitHint = c.stopTimeout
	case finitestate.StatusStopped:
		s.ExitCode = c.exitCode
	}
	return s
}

// transitionLocked moves the machine from one state to another and reports the new status.
// The caller must hold c.mu.
func (c *Controller) transitionLocked(from, to string) bool {
	if err := c.fsm.TransitionIfCurrentState(from, to); err != nil {
		return false
	}
	c.checkpoint = 0
	c.reporter.ReportStatus(c.statusLocked())
	return true
}

func (c *Controller) start(ctx context.Context) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fsm.GetState() != finitestate.StatusStopped {
		return c.statusLocked(), fmt.Errorf(
			"%w: cannot start while %s", errz.ErrServiceControl, c.fsm.GetState())
	}

	sig := stopsignal.New()
	done := make(chan struct{})
	c.signal = sig
	c.done = done
	c.exitCode = ExitOK
	c.transitionLocked(finitestate.StatusStopped, finitestate.StatusStartPending)

	// the worker outlives the control request; only the stop signal ends it
	go c.work(context.WithoutCancel(ctx), sig, done)
	return c.statusLocked(), nil
}

func (c *Controller) work(ctx context.Context, sig *stopsignal.Signal, done chan struct{}) {
	defer close(done)
	started := time.Now()

	h, err := c.load(ctx, sig)
	if err != nil {
		code := ExitCompileError
		if sig.Stopped() || errors.Is(err, errz.ErrStopped) {
			code = ExitOK
			c.logger.Info("Script load interrupted by stop", "error", err)
		} else {
			c.logger.Error("Script load failed", "error", err)
		}
		c.complete(&RunReport{Err: err, ExitCode: code, Started: started}, code)
		return
	}

	if err := h.SetArgs(c.args); err != nil {
		c.logger.Warn("Unable to set script arguments", "error", err)
	}

	c.mu.Lock()
	c.transitionLocked(finitestate.StatusStartPending, finitestate.StatusRunning)
	c.mu.Unlock()

	outcome, runErr := h.Run(ctx)
	if err := h.Cleanup(); err != nil {
		c.logger.Warn("Script cleanup failed", "error", err)
	}

	code := ExitOK
	if outcome == worker.OutcomeFailed {
		code = ExitRuntimeError
		c.logger.Error("Script failed", "error", runErr)
	}
	c.complete(reportFromHandle(h, started, code), code)
}

func (c *Controller) complete(report *RunReport, code uint32) {
	c.finish(report, code)
	if c.onFinish != nil {
		c.onFinish(report)
	}
}

func (c *Controller) load(ctx context.Context, sig *stopsignal.Signal) (*worker.Handle, error) {
	src, err := c.source()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrCompile, err)
	}
	return worker.Load(ctx, c.eng, src,
		worker.WithLogHandler(c.logHandler),
		worker.WithStopSignal(sig),
	)
}

// finish records the run and walks the machine to Stopped, reporting Stopped exactly once.
func (c *Controller) finish(report *RunReport, code uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastRun = report
	if c.exitCode != ExitWatchdog {
		c.exitCode = code
	}
	if c.transitionLocked(finitestate.StatusStartPending, finitestate.StatusStopped) {
		return
	}
	c.transitionLocked(finitestate.StatusRunning, finitestate.StatusStopPending)
	c.transitionLocked(finitestate.StatusStopPending, finitestate.StatusStopped)
}

func (c *Controller) stop(ctx context.Context, cmd Command) (Status, error) {
	c.mu.Lock()
	state := c.fsm.GetState()
	if state == finitestate.StatusStopped {
		c.mu.Unlock()
		return c.Status(), nil
	}
	sig, done := c.signal, c.done
	if sig.Stop() {
		c.logger.Info("Stop requested", "command", cmd, "state", state)
	}
	if !c.transitionLocked(finitestate.StatusRunning, finitestate.StatusStopPending) {
		c.transitionLocked(finitestate.StatusStartPending, finitestate.StatusStopPending)
	}
	c.mu.Unlock()

	return c.await(ctx, done)
}

// await waits for the worker to finish, bumping the checkpoint while waiting. When the stop
// timeout elapses the watchdog terminator runs.
func (c *Controller) await(ctx context.Context, done <-chan struct{}) (Status, error) {
	watchdog := time.NewTimer(c.stopTimeout)
	defer watchdog.Stop()
	progress := time.NewTicker(checkpointInterval(c.stopTimeout))
	defer progress.Stop()

	for {
		select {
		case <-done:
			return c.Status(), nil
		case <-progress.C:
			c.bumpCheckpoint()
		case <-watchdog.C:
			c.logger.Error("Worker did not stop in time", "timeout", c.stopTimeout)
			c.mu.Lock()
			c.exitCode = ExitWatchdog
			c.mu.Unlock()
			c.terminate(ExitWatchdog)
			return c.Status(), fmt.Errorf(
				"%w: worker still running after %s", errz.ErrWatchdogTimeout, c.stopTimeout)
		case <-ctx.Done():
			return c.Status(), ctx.Err()
		}
	}
}

func checkpointInterval(timeout time.Duration) time.Duration {
	interval := timeout / 4
	if interval > time.Second {
		return time.Second
	}
	if interval <= 0 {
		return time.Millisecond
	}
	return interval
}

func (c *Controller) bumpCheckpoint() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fsm.GetState() != finitestate.StatusStopPending {
		return
	}
	c.checkpoint++
	c.reporter.ReportStatus(c.statusLocked())
}

// Done returns a channel closed when the current worker has finished.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// ExitCode returns the exit code of the last finished run.
func (c *Controller) ExitCode() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitCode
}

// LastRun returns the report of the last finished run, or nil before any run has finished.
func (c *Controller) LastRun() *RunReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRun == nil {
		return nil
	}
	r := *c.lastRun
	return &r
}

// Run starts the script and blocks until it finishes or the context is canceled, in which
// case the script is stopped.
func (c *Controller) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancelMu.Lock()
	c.localCancel = cancel
	c.cancelMu.Unlock()

	if _, err := c.Control(runCtx, CmdStart); err != nil {
		return err
	}
	done := c.Done()

	select {
	case <-done:
	case <-runCtx.Done():
		c.logger.Debug("Run context canceled, stopping script")
		if _, err := c.Control(context.WithoutCancel(ctx), CmdStop); err != nil {
			return err
		}
	}

	if run := c.LastRun(); run != nil && run.ExitCode == ExitRuntimeError {
		return run.Err
	}
	return nil
}

// Stop signals Run to stop the script.
func (c *Controller) Stop() {
	c.cancelMu.Lock()
	cancel := c.localCancel
	c.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}
}
