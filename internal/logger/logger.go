package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log *slog.Logger

func init() {
	Log = New(os.Stdout, "info")
	slog.SetDefault(Log)
}

// New builds a JSON logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

// Configure replaces the process logger.
func Configure(level string) {
	Log = New(os.Stdout, level)
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
