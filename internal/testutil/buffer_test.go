package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadSafeBuffer(t *testing.T) {
	var buf ThreadSafeBuffer
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fmt.Fprintf(&buf, "line %d\n", i)
		}()
	}
	wg.Wait()

	assert.Contains(t, buf.String(), "line 0")
	assert.Contains(t, buf.String(), "line 9")
	assert.Len(t, buf.Lines(), 10)

	buf.Reset()
	assert.Empty(t, buf.String())
}
