// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 28
)

// Init routes slog output to a size-rotated log file and installs the
// resulting logger as the process default.
func Init(pathToLogFile string) *slog.Logger {
	w := &lumberjack.Logger{
		Filename:   pathToLogFile,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	slog.SetDefault(l)

	return l
}
