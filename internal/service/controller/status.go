package controller

import (
	"fmt"
	"strings"
	"time"
)

// Command is a control request from the service manager or the CLI.
type Command int

const (
	CmdStart Command = iota
	CmdStop
	CmdShutdown
	CmdInterrogate
	CmdPause
	CmdContinue
)

// String returns a string representation of the Command.
func (c Command) String() string {
	switch c {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdShutdown:
		return "shutdown"
	case CmdInterrogate:
		return "interrogate"
	case CmdPause:
		return "pause"
	case CmdContinue:
		return "continue"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// Accepts is the set of controls the service currently accepts.
type Accepts uint32

const (
	AcceptStop Accepts = 1 << iota
	AcceptShutdown
)

// String lists the accepted controls.
func (a Accepts) String() string {
	var parts []string
	if a&AcceptStop != 0 {
		parts = append(parts, "stop")
	}
	if a&AcceptShutdown != 0 {
		parts = append(parts, "shutdown")
	}
	return strings.Join(parts, "|")
}

// Process exit codes reported with the Stopped state.
const (
	ExitOK           uint32 = 0
	ExitRuntimeError uint32 = 1
	ExitCompileError uint32 = 2
	ExitWatchdog     uint32 = 3
)

// Status is a snapshot of the controller as reported to the service manager.
type Status struct {
	State      string
	Accepts    Accepts
	ExitCode   uint32
	Checkpoint uint32
	WaitHint   time.Duration
}

// String returns a compact representation for logs.
func (s Status) String() string {
	return fmt.Sprintf("%s(exit=%d, checkpoint=%d, wait=%s, accepts=%s)",
		s.State, s.ExitCode, s.Checkpoint, s.WaitHint, s.Accepts)
}

// Reporter receives every status change. ReportStatus is called with the controller's state
// lock held, so it must not call back into the controller.
type Reporter interface {
	ReportStatus(Status)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Status)

// ReportStatus calls f.
func (f ReporterFunc) ReportStatus(s Status) {
	f(s)
}
