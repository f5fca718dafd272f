// Package starlark runs service scripts on the go.starlark.net interpreter.
//
// Scripts are compiled at Load. An init script, when configured, runs at Load and its globals
// become predeclared names for the main script. Run executes the main script's top level and
// then derives the result from a global main() function if one is defined, or the global "_"
// otherwise. Cancellation of the run context cancels the interpreter thread, which is checked
// on every VM step.
package starlark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/errz"
)

const (
	// FileExt is appended to bare module names during load resolution.
	FileExt = ".star"

	resultFunc   = "main"
	resultGlobal = "_"

	localContext = "scriptsvc.ctx"
	localArgv    = "scriptsvc.argv"
)

var _ engine.Engine = (*Engine)(nil)

// Engine compiles Starlark sources.
type Engine struct {
	opts engine.Options
}

// New creates a Starlark engine.
func New(opts ...engine.Option) *Engine {
	return &Engine{opts: engine.NewOptions(opts...)}
}

// Type returns engine.TypeStarlark.
func (e *Engine) Type() engine.Type {
	return engine.TypeStarlark
}

func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Load compiles src. The init script, if any, is executed here so that its globals can be
// resolved by the main script.
func (e *Engine) Load(ctx context.Context, src engine.Source, logger *slog.Logger) (engine.Instance, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.WithGroup("starlark")

	inst := &Instance{
		name:   src.Name,
		logger: logger,
	}
	inst.loader = newModuleLoader(
		engine.NewResolver(src.Dir(), FileExt, e.opts.SearchPaths),
		inst.newThread,
		inst.basePredeclared,
	)
	inst.predeclared = starlark.StringDict{
		"service": newServiceModule(e.opts.ServiceName, e.opts.DisplayName),
	}

	if e.opts.InitScript != nil {
		globals, err := inst.execInit(ctx, *e.opts.InitScript)
		if err != nil {
			return nil, err
		}
		for k, v := range globals {
			inst.predeclared[k] = v
		}
	}

	_, prog, err := starlark.SourceProgramOptions(fileOptions(), src.Name, src.Code, inst.predeclared.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrCompile, err)
	}
	inst.prog = prog
	logger.Debug("Script compiled", "script", src.Name, "loads", prog.NumLoads())
	return inst, nil
}

var _ engine.Instance = (*Instance)(nil)

// Instance is a compiled Starlark program.
type Instance struct {
	name        string
	logger      *slog.Logger
	prog        *starlark.Program
	predeclared starlark.StringDict
	loader      *moduleLoader

	mu     sync.Mutex
	closed bool
}

func (i *Instance) basePredeclared() starlark.StringDict {
	return i.predeclared
}

// newThread creates an interpreter thread bound to ctx. The returned release function must be
// called when the thread is no longer used.
func (i *Instance) newThread(ctx context.Context, name string, argv []string) (*starlark.Thread, func() bool) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(t *starlark.Thread, msg string) {
			i.logger.InfoContext(ctx, msg, "source", "print", "thread", t.Name)
		},
		Load: i.loader.load,
	}
	thread.SetLocal(localContext, ctx)
	thread.SetLocal(localArgv, argv)
	thread.SetLocal(localLogger, i.logger)
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(fmt.Sprintf("service stopping: %v", context.Cause(ctx)))
	})
	return thread, stop
}

func (i *Instance) execInit(ctx context.Context, src engine.Source) (starlark.StringDict, error) {
	_, prog, err := starlark.SourceProgramOptions(fileOptions(), src.Name, src.Code, i.predeclared.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: init script: %w", errz.ErrCompile, err)
	}
	thread, release := i.newThread(ctx, src.Name, nil)
	defer release()

	globals, err := prog.Init(thread, i.predeclared)
	if err != nil {
		return nil, i.runError(ctx, "init script", err)
	}
	globals.Freeze()
	i.logger.Debug("Init script executed", "script", src.Name, "globals", len(globals))
	return globals, nil
}

// Run executes the program with argv and returns its result values.
func (i *Instance) Run(ctx context.Context, argv []string) ([]any, error) {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil, fmt.Errorf("%w: instance closed", errz.ErrInvalidState)
	}
	i.mu.Unlock()

	thread, release := i.newThread(ctx, i.name, append([]string(nil), argv...))
	defer release()

	globals, err := i.prog.Init(thread, i.predeclared)
	if err != nil {
		return nil, i.runError(ctx, "script", err)
	}

	var out starlark.Value = starlark.None
	if fn, ok := globals[resultFunc].(starlark.Callable); ok {
		out, err = starlark.Call(thread, fn, nil, nil)
		if err != nil {
			return nil, i.runError(ctx, resultFunc+"()", err)
		}
	} else if v, ok := globals[resultGlobal]; ok {
		out = v
	}

	return engine.ExpandResult(toGo(out)), nil
}

func (i *Instance) runError(ctx context.Context, what string, err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		i.logger.Debug("Starlark backtrace", "backtrace", evalErr.Backtrace())
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s: %w", errz.ErrStopped, what, context.Cause(ctx))
	}
	return fmt.Errorf("%w: %s: %w", errz.ErrRuntime, what, err)
}

// Close releases the compiled program and module cache.
func (i *Instance) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	i.prog = nil
	i.loader.reset()
	return nil
}
