package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
)

// Validate checks the document after defaults have been applied.
func (f *File) Validate() error {
	if f.Version != VersionLatest {
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, f.Version)
	}

	var errs []error

	if f.Service.Name == "" {
		errs = append(errs, fmt.Errorf("%w: service.name", ErrMissingField))
	} else if strings.ContainsAny(f.Service.Name, `/\ `) {
		errs = append(errs, fmt.Errorf("%w: service.name %q must not contain slashes or spaces",
			ErrInvalidValue, f.Service.Name))
	}
	if f.Service.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: service.stop_timeout must be positive", ErrInvalidValue))
	}

	if f.Script.Path == "" {
		errs = append(errs, fmt.Errorf("%w: script.path", ErrMissingField))
	}
	if _, err := engine.ParseType(f.Script.Engine); err != nil {
		errs = append(errs, fmt.Errorf("script.engine: %w", err))
	}
	for i, p := range f.Script.SearchPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("%w: script.search_paths[%d] is empty", ErrInvalidValue, i))
		}
	}

	if err := f.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if f.Diagnostics.Listen != "" {
		if _, _, err := net.SplitHostPort(f.Diagnostics.Listen); err != nil {
			errs = append(errs, fmt.Errorf("%w: diagnostics.listen: %w", ErrInvalidValue, err))
		}
	}
	for name, d := range map[string]Duration{
		"read_timeout":  f.Diagnostics.ReadTimeout,
		"write_timeout": f.Diagnostics.WriteTimeout,
		"drain_timeout": f.Diagnostics.DrainTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%w: diagnostics.%s is negative", ErrInvalidValue, name))
		}
	}

	return errors.Join(errs...)
}
