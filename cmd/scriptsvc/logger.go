package main

import (
	"log/slog"

	"github.com/atlanticdynamic/scriptsvc/internal/config"
	"github.com/atlanticdynamic/scriptsvc/internal/logging"
)

// setupLogging installs the configured trace sink as the default logger. The returned sink
// must be closed to flush buffered records.
func setupLogging(cfg *config.Service) (*logging.Sink, error) {
	sink, err := logging.NewSink(cfg.Logging(), logging.DefaultBufferSize)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(sink))
	return sink, nil
}
