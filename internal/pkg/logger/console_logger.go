package logger

import (
	"io"
	"log/slog"
	"os"
)

// ConsoleLogger is an implementation of Logger that logs text records to a stream.
type ConsoleLogger struct {
	slogLogger
}

// NewConsoleLogger creates a console logger writing to stdout.
func NewConsoleLogger(level string) Logger {
	return NewConsoleLoggerTo(os.Stdout, level)
}

// NewConsoleLoggerTo creates a console logger writing to w.
func NewConsoleLoggerTo(w io.Writer, level string) Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: replaceLevel,
	}
	handler := slog.NewTextHandler(w, opts)

	return &ConsoleLogger{slogLogger{logger: slog.New(handler)}}
}
