//go:build unit
// +build unit

package auth

import (
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthSettings() *config.AuthSettings {
	return &config.AuthSettings{
		SigningKey:      "0123456789abcdef-test-key",
		Issuer:          "tms",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		BcryptCost:      4,
	}
}

func newTestIssuer(t *testing.T) *jwtIssuer {
	t.Helper()
	issuer, err := NewJWTIssuer(testAuthSettings())
	require.NoError(t, err)
	return issuer.(*jwtIssuer)
}

func TestJWTIssuer_IssueAndParse(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(&users.User{ID: 42})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	id, err := issuer.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	// a refresh token is not an access token
	_, err = issuer.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, users.ErrInvalidToken)
}

func TestJWTIssuer_Refresh(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.Issue(&users.User{ID: 7})
	require.NoError(t, err)

	access, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)

	id, err := issuer.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, users.ErrInvalidToken)
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := newTestIssuer(t)
	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }

	pair, err := issuer.Issue(&users.User{ID: 1})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, users.ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	// refresh is still inside its 24h lifetime
	_, err = issuer.Refresh(pair.Refresh)
	assert.NoError(t, err)
}

func TestJWTIssuer_RejectsForeignTokens(t *testing.T) {
	issuer := newTestIssuer(t)

	other := testAuthSettings()
	other.SigningKey = "another-signing-key-0000"
	foreign, err := NewJWTIssuer(other)
	require.NoError(t, err)
	pair, err := foreign.Issue(&users.User{ID: 1})
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, users.ErrInvalidToken)

	_, err = issuer.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, users.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: TokenTypeAccess, UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.ParseAccess(unsigned)
	assert.ErrorIs(t, err, users.ErrInvalidToken)
}

func TestNewJWTIssuer_InvalidSettings(t *testing.T) {
	settings := testAuthSettings()
	settings.SigningKey = "short"
	_, err := NewJWTIssuer(settings)
	assert.Error(t, err)
}
