package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MailSettings configures outgoing notification email
type MailSettings struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required,email"`
	UseTLS   bool   `mapstructure:"use_tls"`
	// RatePerSecond throttles sends across all notification workers
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gt=0"`
	Workers       int     `mapstructure:"workers" validate:"min=1"`
	QueueSize     int     `mapstructure:"queue_size" validate:"min=1"`
}

// Validate checks that all fields in MailSettings are valid
func (s *MailSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for MailSettings: %w", err)
	}
	return nil
}
