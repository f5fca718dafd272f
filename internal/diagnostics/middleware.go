package diagnostics

import (
	"log/slog"
	"time"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

func requestLogger(logger *slog.Logger) httpserver.HandlerFunc {
	return func(rp *httpserver.RequestProcessor) {
		start := time.Now()
		rp.Next()

		r := rp.Request()
		rw := rp.Writer()
		level := slog.LevelDebug
		if rw.Status() >= 500 {
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "Diagnostics request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"size", rw.Size(),
			"duration", time.Since(start))
	}
}
