package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"worklog/internal/config"
)

// Discard returns a logger that drops every record. Components fall back to
// it when constructed with a nil logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// New builds the application logger. Records go to the rotating log file
// when one is configured; otherwise they go to stderr only in debug mode.
// The returned closer releases the log file.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	debug := cfg.Debug || DebugEnabled()
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	switch {
	case cfg.File != "":
		w := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		return slog.New(slog.NewJSONHandler(w, opts)), w
	case debug:
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nopCloser{}
	default:
		return Discard(), nopCloser{}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
