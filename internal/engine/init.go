package engine

import (
	"fmt"
	"os"
	"strings"
)

// InitLookup resolves the init script for an engine. The explicit value wins; otherwise the
// environment is consulted in order <PREFIX>_INIT_<MAJOR>_<MINOR>, then <PREFIX>_INIT. A value
// beginning with "@" names a file to read, anything else is inline code.
type InitLookup struct {
	Prefix   string
	Major    int
	Minor    int
	Explicit string
	Getenv   func(string) (string, bool)
}

// EnvNames returns the environment variable names consulted, in priority order.
func (l InitLookup) EnvNames() []string {
	p := strings.ToUpper(l.Prefix)
	return []string{
		fmt.Sprintf("%s_INIT_%d_%d", p, l.Major, l.Minor),
		p + "_INIT",
	}
}

// Resolve returns the init source, or nil when none is configured.
func (l InitLookup) Resolve() (*Source, error) {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}

	name, value := "=init", l.Explicit
	if value == "" {
		for _, env := range l.EnvNames() {
			if v, ok := getenv(env); ok && v != "" {
				name, value = "="+env, v
				break
			}
		}
	}
	if value == "" {
		return nil, nil
	}

	if path, ok := strings.CutPrefix(value, "@"); ok {
		src, err := SourceFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("init script: %w", err)
		}
		return &src, nil
	}
	return &Source{Name: name, Code: value}, nil
}
