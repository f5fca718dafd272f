package logs

import (
	"errors"
	"fmt"

	"github.com/atlanticdynamic/scriptsvc/internal/logging/writers"
)

// Validate performs validation for Config
func (lc *Config) Validate() error {
	var errs []error

	if !lc.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidLogFormat, lc.Format))
	}

	if !lc.Level.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidLogLevel, lc.Level))
	}

	if _, err := writers.ParseOutput(lc.Output); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidLogOutput, err))
	}

	return errors.Join(errs...)
}
