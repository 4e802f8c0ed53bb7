package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the token_type claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the JWT claims issued for a user
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// jwtIssuer signs HS256 access and refresh tokens
type jwtIssuer struct {
	key      []byte
	settings *config.AuthSettings
	now      func() time.Time
}

// NewJWTIssuer creates a token issuer from the auth settings
func NewJWTIssuer(settings *config.AuthSettings) (users.TokenIssuer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &jwtIssuer{key: []byte(settings.SigningKey), settings: settings, now: time.Now}, nil
}

func (j *jwtIssuer) Issue(user *users.User) (users.TokenPair, error) {
	access, err := j.sign(user.ID, TokenTypeAccess, j.settings.AccessTokenTTL)
	if err != nil {
		return users.TokenPair{}, err
	}
	refresh, err := j.sign(user.ID, TokenTypeRefresh, j.settings.RefreshTokenTTL)
	if err != nil {
		return users.TokenPair{}, err
	}
	return users.TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *jwtIssuer) ParseAccess(token string) (uint, error) {
	claims, err := j.parse(token, TokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (j *jwtIssuer) Refresh(token string) (string, error) {
	claims, err := j.parse(token, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return j.sign(claims.UserID, TokenTypeAccess, j.settings.AccessTokenTTL)
}

func (j *jwtIssuer) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := j.now().UTC()
	claims := Claims{
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.settings.Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (j *jwtIssuer) parse(token, tokenType string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.settings.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.settings.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return j.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", users.ErrInvalidToken, err)
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", users.ErrInvalidToken, tokenType)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: token has no user", users.ErrInvalidToken)
	}
	return claims, nil
}
