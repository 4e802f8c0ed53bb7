package logger

import (
	"context"
	"log/slog"
	"os"
)

// slogLogger carries the behaviour shared by the console and file loggers
type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(args ...interface{}) {
	l.logger.Debug(formatArgs(args...))
}

func (l *slogLogger) Info(args ...interface{}) {
	l.logger.Info(formatArgs(args...))
}

func (l *slogLogger) Warn(args ...interface{}) {
	l.logger.Warn(formatArgs(args...))
}

func (l *slogLogger) Error(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
}

// Fatal logs at critical level and exits.
func (l *slogLogger) Fatal(args ...interface{}) {
	l.logger.Log(context.Background(), LevelCritical, formatArgs(args...))
	os.Exit(1)
}

// Panic logs at critical level and panics.
func (l *slogLogger) Panic(args ...interface{}) {
	msg := formatArgs(args...)
	l.logger.Log(context.Background(), LevelCritical, msg)
	panic(msg)
}

func (l *slogLogger) With(args ...interface{}) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// replaceLevel renders LevelCritical as CRITICAL instead of ERROR+4
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}
