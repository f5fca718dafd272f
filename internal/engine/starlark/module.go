package starlark

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

const localLogger = "scriptsvc.logger"

// newServiceModule returns the predeclared "service" module.
func newServiceModule(name, displayName string) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "service",
		Members: starlark.StringDict{
			"name":         starlark.String(name),
			"display_name": starlark.String(displayName),
			"args":         starlark.NewBuiltin("service.args", serviceArgs),
			"stopping":     starlark.NewBuiltin("service.stopping", serviceStopping),
			"sleep":        starlark.NewBuiltin("service.sleep", serviceSleep),
			"trace":        starlark.NewBuiltin("service.trace", serviceTrace),
		},
	}
}

func threadContext(thread *starlark.Thread) context.Context {
	if ctx, ok := thread.Local(localContext).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func serviceArgs(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	argv, _ := thread.Local(localArgv).([]string)
	elems := make([]starlark.Value, 0, len(argv))
	for _, a := range argv {
		elems = append(elems, starlark.String(a))
	}
	return starlark.NewList(elems), nil
}

func serviceStopping(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.Bool(threadContext(thread).Err() != nil), nil
}

// serviceSleep blocks for the given number of seconds or until the run is stopped.
func serviceSleep(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var secs starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &secs); err != nil {
		return nil, err
	}
	f, ok := starlark.AsFloat(secs)
	if !ok {
		return nil, fmt.Errorf("%s: want number, got %s", b.Name(), secs.Type())
	}
	if f < 0 {
		return nil, fmt.Errorf("%s: negative duration %g", b.Name(), f)
	}

	timer := time.NewTimer(time.Duration(f * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-threadContext(thread).Done():
	}
	return starlark.None, nil
}

var traceLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func serviceTrace(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var msg string
	level := "info"
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "msg", &msg, "level?", &level); err != nil {
		return nil, err
	}
	lvl, ok := traceLevels[strings.ToLower(level)]
	if !ok {
		return nil, fmt.Errorf("%s: unknown level %q", b.Name(), level)
	}

	logger, _ := thread.Local(localLogger).(*slog.Logger)
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(threadContext(thread), lvl, msg, "source", "trace", "thread", thread.Name)
	return starlark.None, nil
}
