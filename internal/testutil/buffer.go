// Package testutil holds helpers shared by package tests: a log buffer safe for concurrent
// writers, loopback port allocation and testify mocks of the engine contract.
package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// ThreadSafeBuffer collects log output written from worker and controller goroutines while a
// test reads it.
type ThreadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

// Write implements io.Writer
func (b *ThreadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

// String returns everything written so far.
func (b *ThreadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// Reset resets the buffer to be empty
func (b *ThreadSafeBuffer) Reset() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.buffer.Reset()
}

// Lines returns the non-empty lines written so far, one log record each for line-oriented
// handlers.
func (b *ThreadSafeBuffer) Lines() []string {
	var out []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
