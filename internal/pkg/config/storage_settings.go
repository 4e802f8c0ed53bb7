package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StorageSettings configures the S3-compatible bucket holding task attachments
type StorageSettings struct {
	Bucket          string `mapstructure:"bucket" validate:"required"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	PublicEndpoint  string `mapstructure:"public_endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PathStyle       bool   `mapstructure:"path_style"`
	PublicBucket    bool   `mapstructure:"public_bucket"`
	URLExpiryHours  int    `mapstructure:"url_expiry_hours" validate:"min=1,max=168"`
	WebhookToken    string `mapstructure:"webhook_token"`
	MaxUploadBytes  int64  `mapstructure:"max_upload_bytes" validate:"min=1"`
}

// Validate checks that all fields in StorageSettings are valid
func (s *StorageSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for StorageSettings: %w", err)
	}

	if s.PublicBucket && s.PublicEndpoint == "" {
		return fmt.Errorf("public endpoint is required for a public bucket")
	}
	return nil
}
