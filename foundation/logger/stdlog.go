package logger

import (
	"log"
	"log/slog"
)

// NewStdLogger returns a standard library Logger that wraps the slog Logger.
// The http.Server error log is the main consumer.
func NewStdLogger(logger *Logger, level Level) *log.Logger {
	return slog.NewLogLogger(logger.handler, slog.Level(level))
}
