// Package risor runs service scripts on the Risor language through go-polyscript.
//
// Scripts read their inputs from the evaluation context: ctx["argv"] holds the argument vector
// and ctx["service"] the service names. The value of the script's last expression is the
// result, for example:
//
//	let args = ctx["argv"]
//	[{"code": 200, "body": "ok"}, len(args)]
//
// An init script is compiled on its own first and then prepended to the main script; errors
// from the combined program name the number of init lines that precede the main script.
package risor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	polyrisor "github.com/robbyt/go-polyscript/engines/risor"
	"github.com/robbyt/go-polyscript/platform"
	"github.com/robbyt/go-polyscript/platform/constants"
	"github.com/robbyt/go-polyscript/platform/data"
	"github.com/robbyt/go-polyscript/platform/script/loader"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/errz"
)

// FileExt is the conventional extension of Risor scripts.
const FileExt = ".risor"

var _ engine.Engine = (*Engine)(nil)

// Engine compiles Risor sources.
type Engine struct {
	opts engine.Options
}

// New creates a Risor engine.
func New(opts ...engine.Option) *Engine {
	return &Engine{opts: engine.NewOptions(opts...)}
}

// Type returns engine.TypeRisor.
func (e *Engine) Type() engine.Type {
	return engine.TypeRisor
}

// Load compiles the init script and src as one program.
func (e *Engine) Load(ctx context.Context, src engine.Source, logger *slog.Logger) (engine.Instance, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.WithGroup("risor")

	if len(e.opts.SearchPaths) > 0 {
		logger.WarnContext(ctx, "Search paths are not supported by the risor engine, ignoring",
			"paths", e.opts.SearchPaths)
	}

	code := src.Code
	offset := 0
	if init := e.opts.InitScript; init != nil {
		if _, err := compile(logger, init.Name, init.Code); err != nil {
			return nil, err
		}
		code = init.Code + "\n" + code
		offset = strings.Count(init.Code, "\n") + 1
	}

	ev, err := compile(logger, src.Name, code)
	if err != nil {
		return nil, withOffset(err, offset)
	}

	logger.Debug("Script compiled", "script", src.Name, "initLines", offset)
	return &Instance{
		name:      src.Name,
		offset:    offset,
		evaluator: ev,
		provider:  data.NewContextProvider(constants.EvalData),
		service: map[string]any{
			"name":         e.opts.ServiceName,
			"display_name": e.opts.DisplayName,
		},
		logger: logger,
	}, nil
}

func compile(logger *slog.Logger, name, code string) (platform.Evaluator, error) {
	ldr, err := loader.NewFromString(code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create loader for %s: %w", errz.ErrCompile, name, err)
	}
	ev, err := polyrisor.FromRisorLoader(logger.Handler(), ldr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errz.ErrCompile, name, err)
	}
	return ev, nil
}

// withOffset notes how many init script lines precede the main script in err's line numbers.
func withOffset(err error, offset int) error {
	if offset == 0 {
		return err
	}
	return fmt.Errorf("%w (line numbers include %d init script lines)", err, offset)
}

var _ engine.Instance = (*Instance)(nil)

// Instance is a compiled Risor program.
type Instance struct {
	name      string
	offset    int
	evaluator platform.Evaluator
	provider  data.Provider
	service   map[string]any
	logger    *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Run evaluates the program with argv in the evaluation context.
func (i *Instance) Run(ctx context.Context, argv []string) ([]any, error) {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil, fmt.Errorf("%w: instance closed", errz.ErrInvalidState)
	}
	ev := i.evaluator
	i.mu.Unlock()

	args := make([]any, 0, len(argv))
	for _, a := range argv {
		args = append(args, a)
	}
	evalCtx, err := i.provider.AddDataToContext(ctx, map[string]any{
		"argv":    args,
		"service": i.service,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare evaluation data: %w", err)
	}

	resp, err := ev.Eval(evalCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", errz.ErrStopped, i.name, context.Cause(ctx))
		}
		return nil, withOffset(fmt.Errorf("%w: %s: %w", errz.ErrRuntime, i.name, err), i.offset)
	}
	if resp == nil {
		return nil, nil
	}
	return engine.ExpandResult(resp.Interface()), nil
}

// Close drops the compiled evaluator.
func (i *Instance) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	i.evaluator = nil
	return nil
}
