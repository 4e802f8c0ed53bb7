package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Search index startup modes
const (
	SearchModeInit    = "init"
	SearchModeRebuild = "rebuild"
)

// SearchSettings configures the Elasticsearch cluster used for full-text search
type SearchSettings struct {
	Addresses   []string `mapstructure:"addresses" validate:"required,min=1,dive,url"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	StartupMode string   `mapstructure:"startup_mode" validate:"required,oneof=init rebuild"`
	// MaxAttempts and RetryDelay bound the wait for the cluster during init
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	BulkSize    int           `mapstructure:"bulk_size" validate:"min=1"`
}

// Validate checks that all fields in SearchSettings are valid
func (s *SearchSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for SearchSettings: %w", err)
	}
	return nil
}
