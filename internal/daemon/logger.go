package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// InitLogger initializes the global logger: text on stdout in debug mode,
// JSON appended to <home>/log/cph.log otherwise.
func InitLogger(cfg *Config) error {
	var handler slog.Handler

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if cfg.Debug {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		logFilePath := filepath.Join(cfg.Home, "log", "cph.log")
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
			return fmt.Errorf("could not create log directory: %w", err)
		}
		logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open log file %s: %w", logFilePath, err)
		}
		handler = slog.NewJSONHandler(logFile, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return nil
}
