// Package host assembles the engine, controller and diagnostics listener from a service
// configuration and runs them either in the foreground or under the OS service manager.
package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/scriptsvc/internal/config"
	"github.com/atlanticdynamic/scriptsvc/internal/diagnostics"
	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/engine/registry"
	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
	"github.com/atlanticdynamic/scriptsvc/internal/service/winsvc"
)

// Init script environment lookup: SCRIPTSVC_INIT_1_0, then SCRIPTSVC_INIT.
const (
	EnvPrefix = "SCRIPTSVC"
	APIMajor  = 1
	APIMinor  = 0
)

// NewEngine builds the configured engine. lookupEnv defaults to os.LookupEnv.
func NewEngine(cfg *config.Service, lookupEnv func(string) (string, bool)) (engine.Engine, error) {
	lookup := engine.InitLookup{
		Prefix:   EnvPrefix,
		Major:    APIMajor,
		Minor:    APIMinor,
		Explicit: cfg.InitScript(),
		Getenv:   lookupEnv,
	}
	initSrc, err := lookup.Resolve()
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithServiceName(cfg.Name(), cfg.DisplayName()),
		engine.WithSearchPaths(cfg.SearchPaths()...),
	}
	if initSrc != nil {
		opts = append(opts, engine.WithInitScript(*initSrc))
	}
	return registry.New(cfg.Engine(), opts...)
}

// NewController builds a controller that reads the configured script on every start.
func NewController(
	cfg *config.Service,
	eng engine.Engine,
	handler slog.Handler,
	opts ...controller.Option,
) (*controller.Controller, error) {
	base := []controller.Option{
		controller.WithName(cfg.Name()),
		controller.WithArgs(cfg.Args()),
		controller.WithStopTimeout(cfg.StopTimeout()),
		controller.WithLogHandler(handler),
	}
	return controller.New(eng, controller.FileSource(cfg.ScriptPath()), append(base, opts...)...)
}

// NewDiagnostics returns the diagnostics listener, or nil when none is configured.
func NewDiagnostics(
	cfg *config.Service,
	src diagnostics.Source,
	handler slog.Handler,
) (*diagnostics.Server, error) {
	if !cfg.DiagnosticsEnabled() {
		return nil, nil
	}
	d := cfg.Diagnostics()
	return diagnostics.NewServer(d.Listen, src,
		diagnostics.WithServiceName(cfg.Name()),
		diagnostics.WithLogHandler(handler),
		diagnostics.WithTimeouts(diagnostics.Timeouts{
			ReadTimeout:  d.ReadTimeout.AsDuration(),
			WriteTimeout: d.WriteTimeout.AsDuration(),
			DrainTimeout: d.DrainTimeout.AsDuration(),
		}),
	)
}

// Foreground runs the script once under go-supervisor. It returns when the script finishes or
// the process is interrupted, with the run report and the exit code.
func Foreground(
	ctx context.Context,
	cfg *config.Service,
	handler slog.Handler,
) (*controller.RunReport, uint32, error) {
	logger := slog.New(handler)

	eng, err := NewEngine(cfg, nil)
	if err != nil {
		return nil, controller.ExitCompileError, fmt.Errorf("failed to create engine: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl, err := NewController(cfg, eng, handler,
		controller.WithFinishHook(func(*controller.RunReport) { cancel() }),
	)
	if err != nil {
		return nil, controller.ExitCompileError, fmt.Errorf("failed to create controller: %w", err)
	}

	runnables := []supervisor.Runnable{ctrl}
	diag, err := NewDiagnostics(cfg, ctrl, handler)
	if err != nil {
		return nil, controller.ExitCompileError, fmt.Errorf("failed to create diagnostics listener: %w", err)
	}
	if diag != nil {
		runnables = append(runnables, diag)
	}

	super, err := supervisor.New(
		supervisor.WithContext(runCtx),
		supervisor.WithLogHandler(handler),
		supervisor.WithRunnables(runnables...),
	)
	if err != nil {
		return nil, controller.ExitCompileError, fmt.Errorf("failed to create supervisor: %w", err)
	}
	runErr := super.Run()

	run := ctrl.LastRun()
	code := ctrl.ExitCode()
	logger.Info("Foreground run complete", "exitCode", code)
	if run == nil && runErr != nil {
		return nil, controller.ExitRuntimeError, fmt.Errorf("failed to run: %w", runErr)
	}
	return run, code, nil
}

// Dispatch hands the process to the OS service manager. debug runs the handler on the
// console.
func Dispatch(ctx context.Context, cfg *config.Service, handler slog.Handler, debug bool) error {
	logger := slog.New(handler).WithGroup("host")

	eng, err := NewEngine(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	relay := winsvc.NewRelay(nil)
	ctrl, err := NewController(cfg, eng, handler, controller.WithReporter(relay))
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	diag, err := NewDiagnostics(cfg, ctrl, handler)
	if err != nil {
		return fmt.Errorf("failed to create diagnostics listener: %w", err)
	}
	if diag != nil {
		diagCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := diag.Run(diagCtx); err != nil {
				logger.Error("Diagnostics listener failed", "error", err)
			}
		}()
		defer diag.Stop()
	}

	return winsvc.Run(winsvc.RunOptions{
		Name:       cfg.Name(),
		Controller: ctrl,
		Relay:      relay,
		Debug:      debug,
	})
}
