package stopsignal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSignal_Stop(t *testing.T) {
	t.Parallel()

	t.Run("starts not stopped", func(t *testing.T) {
		s := New()
		assert.False(t, s.Stopped())
		select {
		case <-s.Done():
			t.Fatal("done channel closed before Stop")
		default:
		}
	})

	t.Run("first stop wins", func(t *testing.T) {
		s := New()
		assert.True(t, s.Stop())
		assert.False(t, s.Stop())
		assert.True(t, s.Stopped())
		<-s.Done()
	})

	t.Run("concurrent stops transition once", func(t *testing.T) {
		s := New()
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if s.Stop() {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
		assert.True(t, s.Stopped())
	})
}

func TestSignal_Bind(t *testing.T) {
	t.Parallel()

	t.Run("stop cancels bound context with cause", func(t *testing.T) {
		s := New()
		ctx, cancel := s.Bind(t.Context())
		defer cancel()

		s.Stop()
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("bound context was not cancelled")
		}
		assert.ErrorIs(t, context.Cause(ctx), ErrStopRequested)
	})

	t.Run("already stopped signal binds a cancelled context", func(t *testing.T) {
		s := New()
		s.Stop()
		ctx, cancel := s.Bind(t.Context())
		defer cancel()

		require.Eventually(t, func() bool {
			return ctx.Err() != nil
		}, time.Second, time.Millisecond)
		assert.ErrorIs(t, context.Cause(ctx), ErrStopRequested)
	})

	t.Run("parent cancellation does not stop the signal", func(t *testing.T) {
		s := New()
		parent, parentCancel := context.WithCancel(t.Context())
		ctx, cancel := s.Bind(parent)
		defer cancel()

		parentCancel()
		<-ctx.Done()
		assert.False(t, s.Stopped())
		assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
	})

	t.Run("release does not leak goroutines", func(t *testing.T) {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
		s := New()
		for range 8 {
			_, cancel := s.Bind(context.Background())
			cancel()
		}
	})
}
