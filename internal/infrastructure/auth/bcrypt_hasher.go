package auth

import (
	"errors"
	"fmt"

	"github.com/ShiroyamaY/tms/internal/domain/users"

	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher stores passwords as bcrypt hashes
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost
func NewBcryptHasher(cost int) (users.PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &bcryptHasher{cost: cost}, nil
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns users.ErrInvalidCredentials when password does not match hash
func (h *bcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return users.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
