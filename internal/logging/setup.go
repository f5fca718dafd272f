// Package logging builds the trace sink: the slog handler every component logs through.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/atlanticdynamic/scriptsvc/internal/config/logs"
	"github.com/atlanticdynamic/scriptsvc/internal/logging/writers"
)

// SetupHandlerText configures a charmbracelet text handler with the provided writer and log
// level. "trace" enables caller and timestamp reporting at debug level.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	reportTimestamp := false
	lvl := log.InfoLevel
	switch strings.ToLower(logLevel) {
	case "trace":
		reportCaller = true
		reportTimestamp = true
		lvl = log.DebugLevel
	case "debug":
		reportTimestamp = true
		lvl = log.DebugLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: reportTimestamp,
		ReportCaller:    reportCaller,
		Level:           lvl,
	})
}

// SetupHandlerJSON configures a JSON slog handler with the provided writer and log level
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     slogLevel(logLevel),
		AddSource: strings.EqualFold(logLevel, "trace"),
	})
}

func slogLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Sink is the configured trace sink: a non-blocking handler in front of the formatted output.
type Sink struct {
	*AsyncHandler
	out io.WriteCloser
}

// NewSink builds the trace sink from the logging configuration. Close must be called to flush
// buffered records.
func NewSink(cfg logs.Config, bufferSize int) (*Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := writers.CreateWriter(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create log writer: %w", err)
	}

	var h slog.Handler
	switch cfg.Format {
	case logs.FormatJSON:
		h = SetupHandlerJSON(cfg.Level.String(), w)
	default:
		h = SetupHandlerText(cfg.Level.String(), w)
	}
	return &Sink{AsyncHandler: NewAsyncHandler(h, bufferSize), out: w}, nil
}

// Close drains buffered records and closes the output.
func (s *Sink) Close() error {
	s.AsyncHandler.Close()
	return s.out.Close()
}

// SetupLogger configures the default logger based on provided log level
func SetupLogger(logLevel string) {
	slog.SetDefault(slog.New(SetupHandlerText(logLevel, nil)))
}
