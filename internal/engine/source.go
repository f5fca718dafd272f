package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source is the script text plus the name used in traces and compile errors.
type Source struct {
	Name string
	Code string
}

// SourceFromString wraps inline code.
func SourceFromString(name, code string) (Source, error) {
	if strings.TrimSpace(code) == "" {
		return Source{}, fmt.Errorf("%w: %s", ErrEmptySource, name)
	}
	return Source{Name: name, Code: code}, nil
}

// SourceFromFile reads a script from disk. Relative paths are resolved against the working
// directory.
func SourceFromFile(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to resolve script path %q: %w", path, err)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read script %q: %w", abs, err)
	}
	return SourceFromString(abs, string(b))
}

// Dir returns the directory containing the source, or "" for inline code.
func (s Source) Dir() string {
	if s.Name == "" || !filepath.IsAbs(s.Name) {
		return ""
	}
	return filepath.Dir(s.Name)
}
