//go:build unit
// +build unit

package logger

import (
	"bytes"
	"testing"

	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogger_LogsToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, config.LogLevelInfo)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestConsoleLogger_CriticalThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, config.LogLevelCritical)

	logger.Error("error message")
	assert.Empty(t, buf.String())

	assert.Panics(t, func() { logger.Panic("boom") })
	assert.Contains(t, buf.String(), "level=CRITICAL")
	assert.Contains(t, buf.String(), "boom")
}

func TestConsoleLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, config.LogLevelInfo).With("component", "startup")

	logger.Info("step ", "migrate", " done")
	assert.Contains(t, buf.String(), "component=startup")
	assert.Contains(t, buf.String(), "step migrate done")
}

func TestNewConsoleLogger(t *testing.T) {
	logger := NewConsoleLogger(config.LogLevelInfo)
	require.NotNil(t, logger)

	require.NotPanics(t, func() {
		logger.Info("test")
		logger.Warn("test")
		logger.Error("test")
	})
}
