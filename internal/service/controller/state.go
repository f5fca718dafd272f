package controller

import (
	"context"

	"github.com/atlanticdynamic/scriptsvc/internal/service/finitestate"
)

// IsRunning returns true if the script is loaded and running.
func (c *Controller) IsRunning() bool {
	return c.fsm.GetState() == finitestate.StatusRunning
}

// GetState returns the current state of the controller.
func (c *Controller) GetState() string {
	return c.fsm.GetState()
}

// GetStateChan returns a channel that emits the controller's state whenever it changes.
func (c *Controller) GetStateChan(ctx context.Context) <-chan string {
	return c.fsm.GetStateChan(ctx)
}
