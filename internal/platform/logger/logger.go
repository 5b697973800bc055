package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger: JSON output for production, text for
// development.
func New(appEnv string) *slog.Logger {
	if appEnv == "dev" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
