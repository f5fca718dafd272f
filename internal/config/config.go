// Package config builds the immutable service configuration from a TOML file, environment
// interpolation and command line overrides.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/atlanticdynamic/scriptsvc/internal/config/logs"
	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/interpolation"
)

// Service is the validated, read-only configuration of one service instance. Slices are copied
// on every read.
type Service struct {
	source      string
	name        string
	displayName string
	description string
	stopTimeout time.Duration

	scriptPath  string
	engine      engine.Type
	args        []string
	searchPaths []string
	initScript  string

	logging     logs.Config
	diagnostics DiagnosticSection
}

// New validates f and freezes it into a Service. Relative script and search paths are
// resolved against baseDir.
func New(f File, baseDir string) (*Service, error) {
	return newService(f, baseDir, "", interpolation.NewExpander(nil))
}

func newService(f File, baseDir, source string, exp *interpolation.Expander) (*Service, error) {
	f.Script.Args = append([]string(nil), f.Script.Args...)
	f.Script.SearchPaths = append([]string(nil), f.Script.SearchPaths...)

	if err := exp.InterpolateStruct(&f); err != nil {
		return nil, err
	}
	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	typ, _ := engine.ParseType(f.Script.Engine)
	s := &Service{
		source:      source,
		name:        f.Service.Name,
		displayName: f.Service.DisplayName,
		description: f.Service.Description,
		stopTimeout: f.Service.StopTimeout.AsDuration(),
		scriptPath:  resolvePath(baseDir, f.Script.Path),
		engine:      typ,
		args:        f.Script.Args,
		initScript:  resolveInit(baseDir, f.Script.Init),
		logging:     f.Logging,
		diagnostics: f.Diagnostics,
	}
	for _, p := range f.Script.SearchPaths {
		s.searchPaths = append(s.searchPaths, resolvePath(baseDir, p))
	}
	return s, nil
}

// resolveInit resolves an "@path" init script reference against baseDir. Inline code is
// returned unchanged.
func resolveInit(baseDir, v string) string {
	if path, ok := strings.CutPrefix(v, "@"); ok {
		return "@" + resolvePath(baseDir, path)
	}
	return v
}

func resolvePath(baseDir, p string) string {
	if p == "" || baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// Source returns the path of the configuration file, or "" if built in memory.
func (s *Service) Source() string { return s.source }

// Name returns the service name registered with the OS.
func (s *Service) Name() string { return s.name }

// DisplayName returns the human readable service name.
func (s *Service) DisplayName() string { return s.displayName }

// Description returns the service description.
func (s *Service) Description() string { return s.description }

// StopTimeout bounds how long a stop request waits for the worker.
func (s *Service) StopTimeout() time.Duration { return s.stopTimeout }

// ScriptPath returns the absolute or working-directory relative script path.
func (s *Service) ScriptPath() string { return s.scriptPath }

// Engine returns the scripting engine type.
func (s *Service) Engine() engine.Type { return s.engine }

// Args returns a copy of the argument vector.
func (s *Service) Args() []string { return append([]string(nil), s.args...) }

// SearchPaths returns a copy of the module search paths.
func (s *Service) SearchPaths() []string { return append([]string(nil), s.searchPaths...) }

// InitScript returns the explicitly configured init script, inline or "@path".
func (s *Service) InitScript() string { return s.initScript }

// Logging returns the trace sink configuration.
func (s *Service) Logging() logs.Config { return s.logging }

// Diagnostics returns the diagnostics listener configuration.
func (s *Service) Diagnostics() DiagnosticSection { return s.diagnostics }

// DiagnosticsEnabled reports whether a diagnostics listen address is configured.
func (s *Service) DiagnosticsEnabled() bool { return s.diagnostics.Listen != "" }
