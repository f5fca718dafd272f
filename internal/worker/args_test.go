package worker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/scriptsvc/internal/errz"
)

func TestArgChannel(t *testing.T) {
	t.Parallel()
	var a ArgChannel
	assert.Empty(t, a.Get())
	assert.False(t, a.Sealed())

	in := []string{"x", "y"}
	require.NoError(t, a.Set(in))
	in[0] = "changed"
	assert.Equal(t, []string{"x", "y"}, a.Get())

	a.Seal()
	assert.True(t, a.Sealed())
	require.ErrorIs(t, a.Set([]string{"z"}), errz.ErrInvalidState)
	assert.Equal(t, []string{"x", "y"}, a.Get())
}

func TestArgChannel_ConcurrentReads(t *testing.T) {
	t.Parallel()
	var a ArgChannel
	require.NoError(t, a.Set([]string{"a"}))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := a.Get()
			got[0] = "mine"
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"a"}, a.Get())
}
