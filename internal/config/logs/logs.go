// Package logs holds the trace sink configuration.
package logs

import (
	"fmt"
	"strings"
)

// Constants for Format
const (
	FormatUnspecified Format = ""
	FormatText        Format = "text"
	FormatJSON        Format = "json"
)

// Constants for Level
const (
	LevelUnspecified Level = ""
	LevelTrace       Level = "trace"
	LevelDebug       Level = "debug"
	LevelInfo        Level = "info"
	LevelWarn        Level = "warn"
	LevelError       Level = "error"
)

// Config contains logging-related configuration options
type Config struct {
	Format Format `toml:"format"`
	Level  Level  `toml:"level"`
	Output string `toml:"output" env_interpolation:"yes"`
}

// Format represents the logging output format
type Format string

// Level represents the logging verbosity level
type Level string

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// String returns the string representation of Level
func (l Level) String() string {
	return string(l)
}

// IsValid checks if the Format is valid
func (f Format) IsValid() bool {
	switch f {
	case FormatUnspecified, FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// IsValid checks if the Level is valid
func (l Level) IsValid() bool {
	switch l {
	case LevelUnspecified, LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// FormatFromString converts a string to a Format
func FormatFromString(format string) (Format, error) {
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "":
		return FormatUnspecified, nil
	default:
		return FormatUnspecified, fmt.Errorf("%w: %s", ErrInvalidLogFormat, format)
	}
}

// LevelFromString converts a string to a Level
func LevelFromString(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "":
		return LevelUnspecified, nil
	default:
		return LevelUnspecified, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
	}
}

// WithDefaults returns a copy with unspecified values filled in.
func (lc Config) WithDefaults() Config {
	if lc.Format == FormatUnspecified {
		lc.Format = FormatText
	}
	if lc.Level == LevelUnspecified {
		lc.Level = LevelInfo
	}
	if lc.Output == "" {
		lc.Output = "stderr"
	}
	return lc
}
