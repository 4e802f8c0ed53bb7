package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthSettings configures JWT issuing
type AuthSettings struct {
	SigningKey      string        `mapstructure:"signing_key" validate:"required,min=16"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl" validate:"required"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl" validate:"required,gtfield=AccessTokenTTL"`
	BcryptCost      int           `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`
}

// Validate checks that all fields in AuthSettings are valid
func (s *AuthSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}
	return nil
}
