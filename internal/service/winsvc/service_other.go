//go:build !windows

package winsvc

import "time"

// IsWindowsService always returns false on this platform.
func IsWindowsService() (bool, error) {
	return false, nil
}

// Run returns ErrUnsupportedPlatform after validating opts.
func Run(opts RunOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	return ErrUnsupportedPlatform
}

// Install returns ErrUnsupportedPlatform.
func Install(InstallOptions) error {
	return ErrUnsupportedPlatform
}

// Remove returns ErrUnsupportedPlatform.
func Remove(string) error {
	return ErrUnsupportedPlatform
}

// Start returns ErrUnsupportedPlatform.
func Start(string, ...string) error {
	return ErrUnsupportedPlatform
}

// Stop returns ErrUnsupportedPlatform.
func Stop(string, time.Duration) error {
	return ErrUnsupportedPlatform
}
