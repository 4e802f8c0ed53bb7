//go:build unit
// +build unit

package auth

import (
	"testing"

	"github.com/ShiroyamaY/tms/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher, err := NewBcryptHasher(4)
	require.NoError(t, err)

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, hasher.Compare(hash, "s3cret-pass"))
	assert.ErrorIs(t, hasher.Compare(hash, "wrong-pass"), users.ErrInvalidCredentials)
	assert.Error(t, hasher.Compare("not-a-hash", "s3cret-pass"))
}

func TestNewBcryptHasher_InvalidCost(t *testing.T) {
	_, err := NewBcryptHasher(2)
	assert.Error(t, err)
	_, err = NewBcryptHasher(40)
	assert.Error(t, err)
}
