package config

import (
	"time"

	"github.com/atlanticdynamic/scriptsvc/internal/config/logs"
)

// VersionLatest is the only configuration version understood.
const VersionLatest = "v1"

// Defaults applied to unset fields.
const (
	DefaultServiceName = "scriptsvc"
	DefaultStopTimeout = 30 * time.Second
	DefaultLogBuffer   = 1024
)

// File is the mutable document decoded from TOML and adjusted by CLI overrides. It is turned
// into an immutable Service by New.
type File struct {
	Version     string            `toml:"version"`
	Service     ServiceSection    `toml:"service"     env_interpolation:"yes"`
	Script      ScriptSection     `toml:"script"      env_interpolation:"yes"`
	Logging     logs.Config       `toml:"logging"     env_interpolation:"yes"`
	Diagnostics DiagnosticSection `toml:"diagnostics" env_interpolation:"yes"`
}

// ServiceSection names the OS service and bounds its stop time.
type ServiceSection struct {
	Name        string   `toml:"name"         env_interpolation:"yes"`
	DisplayName string   `toml:"display_name" env_interpolation:"yes"`
	Description string   `toml:"description"  env_interpolation:"yes"`
	StopTimeout Duration `toml:"stop_timeout"`
}

// ScriptSection selects the script, its engine and its inputs.
type ScriptSection struct {
	Path        string   `toml:"path"         env_interpolation:"yes"`
	Engine      string   `toml:"engine"`
	Args        []string `toml:"args"         env_interpolation:"yes"`
	SearchPaths []string `toml:"search_paths" env_interpolation:"yes"`
	Init        string   `toml:"init"         env_interpolation:"yes"`
}

// DiagnosticSection configures the optional HTTP status listener.
type DiagnosticSection struct {
	Listen       string   `toml:"listen"        env_interpolation:"yes"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	DrainTimeout Duration `toml:"drain_timeout"`
}

// Override adjusts a File after decoding, typically from CLI flags.
type Override func(*File)

// WithScriptPath overrides the script path.
func WithScriptPath(path string) Override {
	return func(f *File) {
		if path != "" {
			f.Script.Path = path
		}
	}
}

// WithEngine overrides the engine type.
func WithEngine(engine string) Override {
	return func(f *File) {
		if engine != "" {
			f.Script.Engine = engine
		}
	}
}

// WithArgs replaces the argument vector when args is non-empty.
func WithArgs(args []string) Override {
	return func(f *File) {
		if len(args) > 0 {
			f.Script.Args = append([]string(nil), args...)
		}
	}
}

// WithServiceName overrides the service name.
func WithServiceName(name string) Override {
	return func(f *File) {
		if name != "" {
			f.Service.Name = name
		}
	}
}

// WithLogLevel overrides the log level.
func WithLogLevel(level string) Override {
	return func(f *File) {
		if level != "" {
			f.Logging.Level = logs.Level(level)
		}
	}
}

// WithLogFormat overrides the log format.
func WithLogFormat(format string) Override {
	return func(f *File) {
		if format != "" {
			f.Logging.Format = logs.Format(format)
		}
	}
}

// WithDiagnosticsListen overrides the diagnostics listen address.
func WithDiagnosticsListen(addr string) Override {
	return func(f *File) {
		if addr != "" {
			f.Diagnostics.Listen = addr
		}
	}
}

func (f *File) applyDefaults() {
	if f.Version == "" {
		f.Version = VersionLatest
	}
	if f.Service.Name == "" {
		f.Service.Name = DefaultServiceName
	}
	if f.Service.DisplayName == "" {
		f.Service.DisplayName = f.Service.Name
	}
	if f.Service.StopTimeout == 0 {
		f.Service.StopTimeout = FromDuration(DefaultStopTimeout)
	}
	f.Logging = f.Logging.WithDefaults()
	if f.Diagnostics.ReadTimeout == 0 {
		f.Diagnostics.ReadTimeout = FromDuration(5 * time.Second)
	}
	if f.Diagnostics.WriteTimeout == 0 {
		f.Diagnostics.WriteTimeout = FromDuration(10 * time.Second)
	}
	if f.Diagnostics.DrainTimeout == 0 {
		f.Diagnostics.DrainTimeout = FromDuration(5 * time.Second)
	}
}
