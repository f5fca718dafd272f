// Package registry constructs engines by type.
package registry

import (
	"fmt"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/engine/risor"
	"github.com/atlanticdynamic/scriptsvc/internal/engine/starlark"
)

// New returns the engine for t.
func New(t engine.Type, opts ...engine.Option) (engine.Engine, error) {
	switch t {
	case engine.TypeStarlark:
		return starlark.New(opts...), nil
	case engine.TypeRisor:
		return risor.New(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownEngine, t)
	}
}

// Types returns the supported engine types.
func Types() []engine.Type {
	return []engine.Type{engine.TypeStarlark, engine.TypeRisor}
}

// FileExt returns the conventional script extension for t.
func FileExt(t engine.Type) string {
	switch t {
	case engine.TypeRisor:
		return risor.FileExt
	default:
		return starlark.FileExt
	}
}
