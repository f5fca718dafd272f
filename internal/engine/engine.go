// Package engine defines the contract between the worker and an embedded scripting runtime.
// An Engine compiles a Source into an Instance; the Instance runs once with an argument vector
// and returns the script's top-level values as plain Go values.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Type identifies a scripting engine.
type Type string

const (
	TypeStarlark Type = "starlark"
	TypeRisor    Type = "risor"
)

// ParseType converts a configuration string into a Type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case "", TypeStarlark:
		return TypeStarlark, nil
	case TypeRisor:
		return TypeRisor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, s)
	}
}

// Engine compiles script sources.
type Engine interface {
	// Type returns the engine identifier.
	Type() Type

	// Load compiles src. Compile failures wrap errz.ErrCompile.
	Load(ctx context.Context, src Source, logger *slog.Logger) (Instance, error)
}

// Instance is one compiled script, ready to run once.
type Instance interface {
	// Run executes the script with argv and returns its result values. Run must return
	// promptly once ctx is cancelled. Script failures wrap errz.ErrRuntime.
	Run(ctx context.Context, argv []string) ([]any, error)

	// Close releases engine resources. It is safe to call after Run failed.
	Close() error
}

// ExpandResult applies the result expansion rule shared by all engines: nil yields no items,
// a list yields one item per element, anything else is a single item.
func ExpandResult(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return append([]any(nil), t...)
	default:
		return []any{v}
	}
}
