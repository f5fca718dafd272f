// Package diagnostics serves the controller status, the last run's results and its trace
// history over HTTP. It is a go-supervisor runnable and only runs when a listen address is
// configured.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
)

var (
	_ supervisor.Runnable  = (*Server)(nil)
	_ supervisor.Stateable = (*Server)(nil)
)

// Source is what the diagnostics endpoints read from. *controller.Controller satisfies it.
type Source interface {
	Status() controller.Status
	LastRun() *controller.RunReport
}

// Timeouts bounds the HTTP server. Zero values keep the go-supervisor defaults.
type Timeouts struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	DrainTimeout time.Duration
}

type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsReady() bool
	GetStateChan(ctx context.Context) <-chan string
}

// Server is the diagnostics HTTP listener.
type Server struct {
	address  string
	name     string
	source   Source
	timeouts Timeouts
	logger   *slog.Logger
	server   serverImplementation
}

// Option represents a functional option for configuring the Server.
type Option func(*Server)

// WithLogHandler sets the handler for server and request logs.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Server) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("diagnostics.Server")
		}
	}
}

// WithTimeouts sets the HTTP server timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(s *Server) {
		s.timeouts = t
	}
}

// WithServiceName sets the name reported by /status.
func WithServiceName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// NewServer creates a diagnostics server for src listening on address.
func NewServer(address string, src Source, opts ...Option) (*Server, error) {
	if address == "" {
		return nil, errors.New("listen address cannot be empty")
	}
	if src == nil {
		return nil, errors.New("source is required")
	}
	s := &Server{
		address: address,
		source:  src,
		logger:  slog.Default().WithGroup("diagnostics.Server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	routes, err := s.routes()
	if err != nil {
		return nil, err
	}
	runner, err := httpserver.NewRunner(
		httpserver.WithConfigCallback(s.configCallback(routes)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server runner: %w", err)
	}
	s.server = runner
	return s, nil
}

func (s *Server) routes() ([]httpserver.Route, error) {
	h := &handlers{name: s.name, source: s.source}
	logMw := requestLogger(s.logger)

	defs := []struct {
		name string
		path string
		fn   func(w http.ResponseWriter, r *http.Request)
	}{
		{"status", "/status", h.status},
		{"results", "/results", h.results},
		{"result-item", "/results/", h.resultItem},
		{"trace", "/trace", h.trace},
	}
	routes := make([]httpserver.Route, 0, len(defs))
	for _, d := range defs {
		route, err := httpserver.NewRouteFromHandlerFunc(d.name, d.path, d.fn, logMw)
		if err != nil {
			return nil, fmt.Errorf("failed to create route %s: %w", d.name, err)
		}
		routes = append(routes, *route)
	}
	return routes, nil
}

func (s *Server) configCallback(routes []httpserver.Route) func() (*httpserver.Config, error) {
	return func() (*httpserver.Config, error) {
		options := []httpserver.ConfigOption{}
		if s.timeouts.ReadTimeout > 0 {
			options = append(options, httpserver.WithReadTimeout(s.timeouts.ReadTimeout))
		}
		if s.timeouts.WriteTimeout > 0 {
			options = append(options, httpserver.WithWriteTimeout(s.timeouts.WriteTimeout))
		}
		if s.timeouts.IdleTimeout > 0 {
			options = append(options, httpserver.WithIdleTimeout(s.timeouts.IdleTimeout))
		}
		if s.timeouts.DrainTimeout > 0 {
			options = append(options, httpserver.WithDrainTimeout(s.timeouts.DrainTimeout))
		}

		config, err := httpserver.NewConfig(s.address, routes, options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
		}
		return config, nil
	}
}

// String returns a string representation of the Server.
func (s *Server) String() string {
	return fmt.Sprintf("diagnostics.Server[%s]", s.address)
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.address
}

// Run serves until the context is canceled or Stop is called.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting diagnostics listener", "address", s.address)
	return s.server.Run(ctx)
}

// Stop stops the listener.
func (s *Server) Stop() {
	s.logger.Info("Stopping diagnostics listener", "address", s.address)
	s.server.Stop()
}

// GetState returns the current state of the listener.
func (s *Server) GetState() string {
	return s.server.GetState()
}

// IsReady returns whether the listener is accepting connections.
func (s *Server) IsReady() bool {
	return s.server.IsReady()
}

// GetStateChan returns a channel that emits state changes.
func (s *Server) GetStateChan(ctx context.Context) <-chan string {
	return s.server.GetStateChan(ctx)
}
