package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps module names to files using an ordered list of search paths.
type Resolver struct {
	paths []string
	ext   string
	stat  func(string) (fs.FileInfo, error)
}

// NewResolver creates a resolver. ext is appended to bare module names in directory entries.
// baseDir, when set, is searched first.
func NewResolver(baseDir, ext string, paths []string) *Resolver {
	all := make([]string, 0, len(paths)+1)
	if baseDir != "" {
		all = append(all, baseDir)
	}
	all = append(all, paths...)
	return &Resolver{paths: all, ext: ext, stat: os.Stat}
}

// Paths returns a copy of the search paths.
func (r *Resolver) Paths() []string {
	return append([]string(nil), r.paths...)
}

// Candidates returns the file paths tried for module, in order.
func (r *Resolver) Candidates(module string) []string {
	if filepath.IsAbs(module) {
		return []string{module}
	}
	bare := strings.TrimSuffix(module, r.ext)
	out := make([]string, 0, len(r.paths))
	for _, p := range r.paths {
		if strings.Contains(p, "?") {
			out = append(out, strings.ReplaceAll(p, "?", bare))
			continue
		}
		out = append(out, filepath.Join(p, bare+r.ext))
	}
	return out
}

// Resolve returns the first candidate that exists as a regular file.
func (r *Resolver) Resolve(module string) (string, error) {
	candidates := r.Candidates(module)
	for _, c := range candidates {
		info, err := r.stat(c)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to stat %q: %w", c, err)
		}
		if info.Mode().IsRegular() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q (tried %s)", ErrModuleNotFound, module, strings.Join(candidates, ", "))
}
