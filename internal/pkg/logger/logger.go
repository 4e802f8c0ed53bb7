package logger

import "log/slog"

// LevelCritical sits above slog.LevelError and is used by Fatal and Panic
const LevelCritical = slog.LevelError + 4

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})
	// With returns a logger that adds the given key/value pairs to every record
	With(args ...interface{}) Logger
}
