package config

import (
	"fmt"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
)

// Server defaults applied when neither the config file nor the environment set a value
const (
	DefaultServerBind    = "0.0.0.0:8000"
	DefaultServerWorkers = 10
	DefaultServerTimeout = 300
)

// ServerSettings controls the HTTP listener and its request worker pool
type ServerSettings struct {
	Bind    string `mapstructure:"bind" validate:"required"`
	Workers int    `mapstructure:"workers" validate:"min=1,max=1024"`
	// Timeout is the per-request deadline in seconds
	Timeout       int           `mapstructure:"timeout" validate:"min=1"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
	// HealthBind enables the gRPC health endpoint when non-empty
	HealthBind string `mapstructure:"health_bind"`
	AllowRoot  bool   `mapstructure:"allow_root"`
}

// RequestTimeout returns Timeout as a duration
func (s *ServerSettings) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// Validate checks that all fields in ServerSettings are valid
func (s *ServerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ServerSettings: %w", err)
	}

	if _, _, err := net.SplitHostPort(s.Bind); err != nil {
		return fmt.Errorf("invalid bind address %q: %w", s.Bind, err)
	}
	if s.HealthBind != "" {
		if _, _, err := net.SplitHostPort(s.HealthBind); err != nil {
			return fmt.Errorf("invalid health bind address %q: %w", s.HealthBind, err)
		}
	}
	return nil
}
