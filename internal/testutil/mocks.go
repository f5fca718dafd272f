package testutil

import (
	"context"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
)

// MockEngine implements engine.Engine for testing
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Type() engine.Type {
	args := m.Called()
	return args.Get(0).(engine.Type)
}

func (m *MockEngine) Load(ctx context.Context, src engine.Source, logger *slog.Logger) (engine.Instance, error) {
	args := m.Called(ctx, src, logger)
	inst, _ := args.Get(0).(engine.Instance)
	return inst, args.Error(1)
}

// MockInstance implements engine.Instance for testing
type MockInstance struct {
	mock.Mock
}

func (m *MockInstance) Run(ctx context.Context, argv []string) ([]any, error) {
	args := m.Called(ctx, argv)
	values, _ := args.Get(0).([]any)
	return values, args.Error(1)
}

func (m *MockInstance) Close() error {
	args := m.Called()
	return args.Error(0)
}
