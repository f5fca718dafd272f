package finitestate

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_Transitions(t *testing.T) {
	t.Parallel()
	m, err := NewService(slog.Default().Handler())
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, m.GetState())

	assert.False(t, m.TransitionBool(StatusRunning), "cannot run before start pending")
	require.NoError(t, m.Transition(StatusStartPending))
	require.NoError(t, m.Transition(StatusRunning))
	require.Error(t, m.Transition(StatusStopped), "running must pass through stop pending")
	require.NoError(t, m.Transition(StatusStopPending))
	require.NoError(t, m.Transition(StatusStopped))
}

func TestNewService_LoadFailurePath(t *testing.T) {
	t.Parallel()
	m, err := NewService(slog.Default().Handler())
	require.NoError(t, err)

	require.NoError(t, m.Transition(StatusStartPending))
	require.NoError(t, m.Transition(StatusStopped))
	assert.Equal(t, StatusStopped, m.GetState())
}

func TestNewService_TransitionIfCurrentState(t *testing.T) {
	t.Parallel()
	m, err := NewService(slog.Default().Handler())
	require.NoError(t, err)
	require.NoError(t, m.Transition(StatusStartPending))

	require.Error(t, m.TransitionIfCurrentState(StatusRunning, StatusStopPending))
	assert.Equal(t, StatusStartPending, m.GetState())
	require.NoError(t, m.TransitionIfCurrentState(StatusStartPending, StatusStopPending))
	assert.Equal(t, StatusStopPending, m.GetState())
}

func TestNewHandle_Transitions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		steps []string
		valid bool
	}{
		{"full lifecycle", []string{HandleLoaded, HandleRunning, HandleRan, HandleCleaned}, true},
		{"cleanup without run", []string{HandleLoaded, HandleCleaned}, true},
		{"run before load", []string{HandleRunning}, false},
		{"run twice", []string{HandleLoaded, HandleRunning, HandleRan, HandleRunning}, false},
		{"cleanup twice", []string{HandleLoaded, HandleCleaned, HandleCleaned}, false},
		{"cleanup during run", []string{HandleLoaded, HandleRunning, HandleCleaned}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewHandle(slog.Default().Handler())
			require.NoError(t, err)
			var lastErr error
			for _, s := range tt.steps {
				if lastErr = m.Transition(s); lastErr != nil {
					break
				}
			}
			if tt.valid {
				require.NoError(t, lastErr)
			} else {
				require.Error(t, lastErr)
			}
		})
	}
}

func TestGetStateChan(t *testing.T) {
	t.Parallel()
	m, err := NewService(slog.Default().Handler())
	require.NoError(t, err)

	ch := m.GetStateChan(t.Context())
	select {
	case s := <-ch:
		assert.Equal(t, StatusStopped, s)
	case <-time.After(time.Second):
		t.Fatal("no initial state")
	}

	require.NoError(t, m.Transition(StatusStartPending))
	select {
	case s := <-ch:
		assert.Equal(t, StatusStartPending, s)
	case <-time.After(time.Second):
		t.Fatal("no state update")
	}
}
