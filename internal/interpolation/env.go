// Package interpolation expands ${VAR} and ${VAR:default} references in configuration values.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrUndefinedVariable is returned for a reference with no default whose variable is unset.
var ErrUndefinedVariable = errors.New("environment variable not defined")

var envVarWithDefaultPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// LookupFunc resolves an environment variable.
type LookupFunc func(string) (string, bool)

// Expander expands references using a lookup function.
type Expander struct {
	lookup LookupFunc
}

// NewExpander creates an Expander. A nil lookup uses the process environment.
func NewExpander(lookup LookupFunc) *Expander {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Expander{lookup: lookup}
}

// Expand replaces every ${NAME} or ${NAME:default} reference in input. ${NAME:} expands to the
// empty string when NAME is unset. Missing variables without a default are reported together
// and left unexpanded in the output.
func (e *Expander) Expand(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	out := envVarWithDefaultPattern.ReplaceAllStringFunc(input, func(match string) string {
		sub := envVarWithDefaultPattern.FindStringSubmatch(match)
		name, hasDefault, def := sub[1], sub[2] == ":", sub[3]

		if v, ok := e.lookup(name); ok {
			return v
		}
		if hasDefault {
			return def
		}
		missing = append(missing, fmt.Errorf("%w: %s", ErrUndefinedVariable, name))
		return match
	})
	return out, errors.Join(missing...)
}

// ExpandEnvVars expands references against the process environment.
func ExpandEnvVars(input string) (string, error) {
	return NewExpander(nil).Expand(input)
}
