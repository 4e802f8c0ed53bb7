package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// userService implements the UserService interface for accounts and JWT authentication
type userService struct {
	userRepo    users.UserRepository
	timeLogRepo tasks.TimeLogRepository
	issuer      users.TokenIssuer
	hasher      users.PasswordHasher
	logger      logger.Logger
	now         func() time.Time
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo users.UserRepository,
	timeLogRepo tasks.TimeLogRepository,
	issuer users.TokenIssuer,
	hasher users.PasswordHasher,
	logger logger.Logger,
) (users.UserService, error) {
	return &userService{
		userRepo:    userRepo,
		timeLogRepo: timeLogRepo,
		issuer:      issuer,
		hasher:      hasher,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Register validates the registration, stores the user with a hashed password and issues tokens
func (s *userService) Register(ctx context.Context, reg *users.Registration) (*users.User, users.TokenPair, error) {
	if err := reg.Validate(); err != nil {
		return nil, users.TokenPair{}, err
	}

	verr := &validators.ValidationError{}
	taken, err := s.userRepo.ExistsByUsername(ctx, reg.Username)
	if err != nil {
		return nil, users.TokenPair{}, err
	}
	if taken {
		verr.Add("username", "A user with that username already exists.")
	}
	taken, err = s.userRepo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, users.TokenPair{}, err
	}
	if taken {
		verr.Add("email", "user with this email already exists.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, users.TokenPair{}, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, users.TokenPair{}, err
	}

	user := &users.User{
		Username:     reg.Username,
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, users.TokenPair{}, fmt.Errorf("failed to register user: %w", err)
	}

	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, users.TokenPair{}, err
	}
	return user, pair, nil
}

// ObtainToken checks the credentials and issues a token pair
func (s *userService) ObtainToken(ctx context.Context, username, password string) (users.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, users.ErrUserNotFound) {
		return users.TokenPair{}, users.ErrInvalidCredentials
	}
	if err != nil {
		return users.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return users.TokenPair{}, err
	}
	return s.issuer.Issue(user)
}

func (s *userService) RefreshToken(_ context.Context, refresh string) (string, error) {
	return s.issuer.Refresh(refresh)
}

// Authenticate resolves the access token to a stored user
func (s *userService) Authenticate(ctx context.Context, access string) (*users.User, error) {
	id, err := s.issuer.ParseAccess(access)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: user %d no longer exists", users.ErrInvalidToken, id)
	}
	return user, err
}

func (s *userService) List(ctx context.Context) ([]*users.User, error) {
	return s.userRepo.List(ctx, 0)
}

// LoggedMinutesLastMonth sums the user's minutes logged in the previous UTC month
func (s *userService) LoggedMinutesLastMonth(ctx context.Context, userID uint) (int, error) {
	start, end := tasks.PreviousMonthRange(s.now())
	return s.timeLogRepo.SumMinutes(ctx, userID, start, end)
}
