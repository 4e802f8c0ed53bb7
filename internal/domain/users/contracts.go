package users

import "context"

// TokenPair is an access token with the refresh token that can renew it
type TokenPair struct {
	Access  string
	Refresh string
}

// UserService defines account and authentication operations.
type UserService interface {
	// Register creates the account and returns it with a fresh token pair.
	// Duplicate usernames or emails are reported as validation errors.
	Register(ctx context.Context, reg *Registration) (*User, TokenPair, error)

	// ObtainToken exchanges username and password for a token pair.
	ObtainToken(ctx context.Context, username, password string) (TokenPair, error)

	// RefreshToken returns a new access token for a valid refresh token.
	RefreshToken(ctx context.Context, refresh string) (string, error)

	// Authenticate resolves the user behind an access token.
	Authenticate(ctx context.Context, access string) (*User, error)

	// List returns every user.
	List(ctx context.Context) ([]*User, error)

	// LoggedMinutesLastMonth sums the user's time logs for the previous UTC month.
	LoggedMinutesLastMonth(ctx context.Context, userID uint) (int, error)
}

// UserRepository defines the interface for User-related operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	CreateBatch(ctx context.Context, users []*User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// List returns up to limit users ordered by id, all when limit <= 0
	List(ctx context.Context, limit int) ([]*User, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*User, error)
}

// TokenIssuer signs and verifies JWTs
type TokenIssuer interface {
	Issue(user *User) (TokenPair, error)
	// ParseAccess returns the user id carried by an access token
	ParseAccess(token string) (uint, error)
	// Refresh returns a new access token for a refresh token
	Refresh(token string) (string, error)
}

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
