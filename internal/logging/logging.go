// Package logging configures the process-wide slog logger with a compact
// console format and re-exports the attr constructors the pipeline uses.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Uint32(key string, value uint32) Attr { return slog.Uint64(key, uint64(value)) }

func Float(key string, value float64) Attr { return slog.Float64(key, value) }

func Err(err error) Attr { return slog.Any("error", err) }

// Configure installs the console handler as the default logger. Verbose
// enables debug-level output.
func Configure(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(NewConsoleHandler(os.Stderr, level)))
}

func Debug(msg string, attrs ...Attr) {
	slog.Default().LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

func Info(msg string, attrs ...Attr) {
	slog.Default().LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

func Warn(msg string, attrs ...Attr) {
	slog.Default().LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

func Error(msg string, attrs ...Attr) {
	slog.Default().LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}
