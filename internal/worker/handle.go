// Package worker owns one script instance from Load to Cleanup: it injects the argument
// vector, runs the script under the stop signal, classifies the outcome and keeps the result
// set and trace history of the run.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/errz"
	"github.com/atlanticdynamic/scriptsvc/internal/result"
	"github.com/atlanticdynamic/scriptsvc/internal/service/finitestate"
	"github.com/atlanticdynamic/scriptsvc/internal/stopsignal"
)

// Handle is one loaded script. It is never reused: a new service start loads a new Handle.
type Handle struct {
	id          uuid.UUID
	source      engine.Source
	engineType  engine.Type
	inst        engine.Instance
	fsm         finitestate.Machine
	args        ArgChannel
	signal      *stopsignal.Signal
	baseHandler slog.Handler
	history     *loglater.LogCollector
	logger      *slog.Logger

	mu       sync.RWMutex
	results  *result.Set
	outcome  Outcome
	runErr   error
	started  time.Time
	finished time.Time
}

// Load compiles src on eng and returns a handle in the Loaded state. Loading observes the stop
// signal, so a stop requested during a slow init script aborts the load.
func Load(ctx context.Context, eng engine.Engine, src engine.Source, opts ...Option) (*Handle, error) {
	h := &Handle{
		id:          uuid.Must(uuid.NewV6()),
		source:      src,
		engineType:  eng.Type(),
		baseHandler: slog.Default().Handler(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.signal == nil {
		h.signal = stopsignal.New()
	}

	h.history = loglater.NewLogCollector(h.baseHandler)
	h.logger = slog.New(h.history).With(
		"run_id", h.id.String(),
		"script", src.Name,
		"engine", string(h.engineType),
	)

	sm, err := finitestate.NewHandle(h.baseHandler)
	if err != nil {
		return nil, fmt.Errorf("%s failed to create state machine: %w", h.id, err)
	}
	h.fsm = sm

	loadCtx, release := h.signal.Bind(ctx)
	defer release()

	inst, err := eng.Load(loadCtx, src, h.logger)
	if err != nil {
		err = classifyLoadError(err)
		h.logger.Error("Script load failed", "error", err)
		return nil, err
	}
	h.inst = inst

	if err := h.fsm.Transition(finitestate.HandleLoaded); err != nil {
		_ = inst.Close()
		return nil, fmt.Errorf("%w: %w", errz.ErrInvalidState, err)
	}
	h.logger.Debug("Script loaded")
	return h, nil
}

func classifyLoadError(err error) error {
	if errors.Is(err, errz.ErrCompile) || errors.Is(err, errz.ErrStopped) {
		return err
	}
	return fmt.Errorf("%w: %w", errz.ErrCompile, err)
}

// ID returns the run ID.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Source returns the script source.
func (h *Handle) Source() engine.Source {
	return h.source
}

// State returns the lifecycle state.
func (h *Handle) State() string {
	return h.fsm.GetState()
}

// Signal returns the stop signal observed by the run.
func (h *Handle) Signal() *stopsignal.Signal {
	return h.signal
}

// SetArgs sets the argument vector. It must be called after Load and before Run.
func (h *Handle) SetArgs(argv []string) error {
	if state := h.fsm.GetState(); state != finitestate.HandleLoaded {
		return fmt.Errorf("%w: cannot set arguments in state %s", errz.ErrInvalidState, state)
	}
	if err := h.args.Set(argv); err != nil {
		return err
	}
	h.logger.Debug("Arguments set", "argc", len(argv))
	return nil
}

// Args returns a copy of the argument vector.
func (h *Handle) Args() []string {
	return h.args.Get()
}

// Run executes the script once. A run that observed the stop signal returns OutcomeStopped
// with a nil error and an empty result set, even if the script produced values. A script
// failure returns OutcomeFailed and an error wrapping errz.ErrRuntime.
func (h *Handle) Run(ctx context.Context) (Outcome, error) {
	if err := h.fsm.TransitionIfCurrentState(finitestate.HandleLoaded, finitestate.HandleRunning); err != nil {
		return OutcomeNone, fmt.Errorf("%w: cannot run in state %s", errz.ErrInvalidState, h.fsm.GetState())
	}
	h.args.Seal()
	argv := h.args.Get()

	runCtx, release := h.signal.Bind(ctx)
	defer release()

	h.mu.Lock()
	h.started = time.Now()
	h.mu.Unlock()
	h.logger.Info("Script started", "argc", len(argv))

	values, err := h.execute(runCtx, argv)

	outcome, results, runErr := h.classify(ctx, values, err)

	h.mu.Lock()
	h.finished = time.Now()
	h.outcome = outcome
	h.results = results
	h.runErr = runErr
	duration := h.finished.Sub(h.started)
	h.mu.Unlock()

	if err := h.fsm.Transition(finitestate.HandleRan); err != nil {
		h.logger.Error("Failed to record run completion", "error", err)
	}

	switch outcome {
	case OutcomeCompleted:
		h.logger.Info("Script completed", "items", results.Len(), "duration", duration)
	case OutcomeStopped:
		h.logger.Info("Script stopped", "duration", duration)
	case OutcomeFailed:
		h.logger.Error("Script failed", "error", runErr, "duration", duration)
	}
	return outcome, runErr
}

// execute runs the instance and converts a panic inside the engine into a runtime error.
func (h *Handle) execute(ctx context.Context, argv []string) (values []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", errz.ErrRuntime, r)
		}
	}()
	return h.inst.Run(ctx, argv)
}

func (h *Handle) classify(parent context.Context, values []any, err error) (Outcome, *result.Set, error) {
	if h.signal.Stopped() {
		return OutcomeStopped, result.Empty(), nil
	}
	if err != nil {
		if errors.Is(err, errz.ErrStopped) || parent.Err() != nil {
			return OutcomeStopped, result.Empty(), nil
		}
		if !errors.Is(err, errz.ErrRuntime) {
			err = fmt.Errorf("%w: %w", errz.ErrRuntime, err)
		}
		return OutcomeFailed, nil, err
	}
	return OutcomeCompleted, result.FromValues(values), nil
}

// Cleanup releases engine resources. It is valid after Load or after Run, and exactly once.
func (h *Handle) Cleanup() error {
	state := h.fsm.GetState()
	if state != finitestate.HandleLoaded && state != finitestate.HandleRan {
		return fmt.Errorf("%w: cannot clean up in state %s", errz.ErrInvalidState, state)
	}
	if err := h.fsm.TransitionIfCurrentState(state, finitestate.HandleCleaned); err != nil {
		return fmt.Errorf("%w: %w", errz.ErrInvalidState, err)
	}

	if err := h.inst.Close(); err != nil {
		h.logger.Warn("Engine cleanup reported an error", "error", err)
		return fmt.Errorf("failed to release engine: %w", err)
	}
	h.logger.Debug("Script cleaned up")
	return nil
}

// Outcome returns how the run ended, or OutcomeNone before Run finished.
func (h *Handle) Outcome() Outcome {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.outcome
}

// Err returns the run error of a failed run.
func (h *Handle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.runErr
}

// Duration returns the wall time of the run, or zero before it finished.
func (h *Handle) Duration() time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.finished.IsZero() {
		return 0
	}
	return h.finished.Sub(h.started)
}

// Results returns the result set of a completed or stopped run. Results remain readable after
// Cleanup.
func (h *Handle) Results() (*result.Set, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.results == nil {
		return nil, fmt.Errorf("%w: run outcome is %s", errz.ErrResultsUnavailable, h.outcome)
	}
	return h.results, nil
}

// ResultString returns the string scalar at ordinal item.
func (h *Handle) ResultString(item int) (string, error) {
	rs, err := h.Results()
	if err != nil {
		return "", err
	}
	return rs.StringAt(item)
}

// ResultInt returns the integer scalar at ordinal item.
func (h *Handle) ResultInt(item int) (int64, error) {
	rs, err := h.Results()
	if err != nil {
		return 0, err
	}
	return rs.IntAt(item)
}

// ResultFieldString returns the named string field of the record at ordinal item.
func (h *Handle) ResultFieldString(item int, field string) (string, error) {
	rs, err := h.Results()
	if err != nil {
		return "", err
	}
	return rs.FieldString(item, field)
}

// ResultFieldInt returns the named integer field of the record at ordinal item.
func (h *Handle) ResultFieldInt(item int, field string) (int64, error) {
	rs, err := h.Results()
	if err != nil {
		return 0, err
	}
	return rs.FieldInt(item, field)
}

// TraceHistory returns every record logged for this handle.
func (h *Handle) TraceHistory() []storage.Record {
	return h.history.GetLogs()
}

// PlaybackTrace replays the trace history into handler.
func (h *Handle) PlaybackTrace(handler slog.Handler) error {
	return h.history.PlayLogs(handler)
}
