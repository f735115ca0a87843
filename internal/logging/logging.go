package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, "info", "text")
)

// Setup replaces the process logger. format is "text" (colored tint output) or "json".
func Setup(w io.Writer, level, format string) {
	l := newLogger(w, level, format)
	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	lvl := parseLevel(level)
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.RFC3339,
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the current process logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

func DebugWithComponent(component, msg string, args ...any) {
	Logger().Debug(msg, append([]any{"component", component}, args...)...)
}

func InfoWithComponent(component, msg string, args ...any) {
	Logger().Info(msg, append([]any{"component", component}, args...)...)
}

func WarnWithComponent(component, msg string, args ...any) {
	Logger().Warn(msg, append([]any{"component", component}, args...)...)
}

func ErrorWithComponent(component, msg string, args ...any) {
	Logger().Error(msg, append([]any{"component", component}, args...)...)
}

// Logf is kept for printf-style call sites; it logs at info level.
func Logf(format string, v ...any) {
	Logger().Log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...))
}
