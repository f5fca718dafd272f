package starlark

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.starlark.net/starlark"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/errz"
)

type cacheEntry struct {
	globals starlark.StringDict
	err     error
}

// moduleLoader implements load() with search path resolution and a per-instance cache.
// A nil cache entry marks a module whose load is in progress, which detects import cycles.
type moduleLoader struct {
	resolver    *engine.Resolver
	newThread   func(ctx context.Context, name string, argv []string) (*starlark.Thread, func() bool)
	predeclared func() starlark.StringDict

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

func newModuleLoader(
	resolver *engine.Resolver,
	newThread func(ctx context.Context, name string, argv []string) (*starlark.Thread, func() bool),
	predeclared func() starlark.StringDict,
) *moduleLoader {
	return &moduleLoader{
		resolver:    resolver,
		newThread:   newThread,
		predeclared: predeclared,
		cache:       make(map[string]*cacheEntry),
	}
}

func (l *moduleLoader) load(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	path, err := l.resolver.Resolve(module)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	e, ok := l.cache[path]
	if ok {
		l.mu.Unlock()
		if e == nil {
			return nil, fmt.Errorf("%w: %s", engine.ErrImportCycle, module)
		}
		return e.globals, e.err
	}
	l.cache[path] = nil
	l.mu.Unlock()

	globals, err := l.exec(thread, path)

	l.mu.Lock()
	l.cache[path] = &cacheEntry{globals: globals, err: err}
	l.mu.Unlock()
	return globals, err
}

func (l *moduleLoader) exec(parent *starlark.Thread, path string) (starlark.StringDict, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %q: %w", path, err)
	}

	predeclared := l.predeclared()
	_, prog, err := starlark.SourceProgramOptions(fileOptions(), path, code, predeclared.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: module %q: %w", errz.ErrCompile, path, err)
	}

	ctx, _ := parent.Local(localContext).(context.Context)
	if ctx == nil {
		ctx = context.Background()
	}
	argv, _ := parent.Local(localArgv).([]string)

	thread, release := l.newThread(ctx, path, argv)
	defer release()

	globals, err := prog.Init(thread, predeclared)
	if err != nil {
		return nil, err
	}
	globals.Freeze()
	return globals, nil
}

func (l *moduleLoader) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*cacheEntry)
}
