package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/atlanticdynamic/scriptsvc/internal/interpolation"
)

// NewConfig loads configuration from a TOML file. Relative paths inside the file are resolved
// against the file's directory.
func NewConfig(filePath string, overrides ...Override) (*Service, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return load(data, filepath.Dir(abs), abs, interpolation.NewExpander(nil), overrides)
}

// NewConfigFromBytes loads configuration from TOML bytes. Relative paths are resolved against
// baseDir.
func NewConfigFromBytes(data []byte, baseDir string, overrides ...Override) (*Service, error) {
	return load(data, baseDir, "", interpolation.NewExpander(nil), overrides)
}

// NewConfigFromReader loads configuration from an io.Reader providing TOML data
func NewConfigFromReader(r io.Reader, baseDir string, overrides ...Override) (*Service, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return NewConfigFromBytes(data, baseDir, overrides...)
}

// NewFromOverrides builds a configuration with no file, for running a script directly.
func NewFromOverrides(baseDir string, overrides ...Override) (*Service, error) {
	return load(nil, baseDir, "", interpolation.NewExpander(nil), overrides)
}

func load(
	data []byte,
	baseDir, source string,
	exp *interpolation.Expander,
	overrides []Override,
) (*Service, error) {
	var f File
	if len(bytes.TrimSpace(data)) > 0 {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
		}
	}
	for _, o := range overrides {
		o(&f)
	}

	svc, err := newService(f, baseDir, source, exp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return svc, nil
}
