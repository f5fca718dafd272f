// Package winsvc connects the controller to the Windows service control manager. On other
// platforms only the platform-neutral helpers are functional and the SCM operations return
// ErrUnsupportedPlatform.
package winsvc

import (
	"errors"
	"time"

	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
)

var (
	ErrUnsupportedPlatform = errors.New("windows services are not supported on this platform")
	ErrServiceExists       = errors.New("service already exists")
	ErrServiceNotFound     = errors.New("service not found")
	ErrControlTimeout      = errors.New("timed out waiting for service state")
)

// Event IDs written to the Windows event log.
const (
	EventInfo    uint32 = 1
	EventWarning uint32 = 2
	EventError   uint32 = 3
)

// StartType selects how the SCM starts an installed service.
type StartType string

const (
	StartAutomatic StartType = "auto"
	StartManual    StartType = "manual"
	StartDisabled  StartType = "disabled"
)

// InstallOptions describes a service registration.
type InstallOptions struct {
	Name        string
	DisplayName string
	Description string
	// ExePath is the absolute path of the service binary.
	ExePath string
	// Args are passed to the binary when the SCM starts it.
	Args      []string
	StartType StartType
}

// RunOptions configures Run.
type RunOptions struct {
	Name       string
	Controller *controller.Controller
	Relay      *Relay
	// Debug runs the handler on the console instead of under the SCM.
	Debug bool
}

const defaultControlTimeout = 30 * time.Second

func (o RunOptions) validate() error {
	if o.Name == "" {
		return errors.New("service name is required")
	}
	if o.Controller == nil {
		return errors.New("controller is required")
	}
	if o.Relay == nil {
		return errors.New("status relay is required")
	}
	return nil
}
