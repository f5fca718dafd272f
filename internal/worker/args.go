package worker

import (
	"fmt"
	"sync"

	"github.com/atlanticdynamic/scriptsvc/internal/errz"
)

// ArgChannel carries the argument vector from the controller to the script. Values are copied
// on the way in and on the way out, and the channel is sealed once the run starts.
type ArgChannel struct {
	mu     sync.RWMutex
	argv   []string
	sealed bool
}

// Set replaces the argument vector. It fails once the channel is sealed.
func (a *ArgChannel) Set(argv []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sealed {
		return fmt.Errorf("%w: arguments are fixed once the run starts", errz.ErrInvalidState)
	}
	a.argv = append([]string(nil), argv...)
	return nil
}

// Get returns a copy of the argument vector.
func (a *ArgChannel) Get() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.argv...)
}

// Seal prevents further changes.
func (a *ArgChannel) Seal() {
	a.mu.Lock()
	a.sealed = true
	a.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (a *ArgChannel) Sealed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sealed
}
