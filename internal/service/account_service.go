package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/passgate/internal/domain"
	"github.com/phrazzld/passgate/internal/platform/logger"
	"github.com/phrazzld/passgate/internal/service/auth"
	"github.com/phrazzld/passgate/internal/store"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AccountService provides registration, login and profile operations.
type AccountService interface {
	// Register stores a new user and returns an access token for it.
	// Returns store.ErrUsernameExists if the username is taken.
	Register(ctx context.Context, in RegisterInput) (string, error)

	// Login checks credentials and returns a fresh access token.
	// Returns auth.ErrInvalidCredentials for an unknown user or a wrong password.
	Login(ctx context.Context, username, password string) (string, error)

	// GetProfile returns the stored user record.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetProfile(ctx context.Context, username string) (*domain.User, error)

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int, error)
}

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	users         store.UserStore
	tokens        auth.TokenService
	hasher        auth.PasswordHasher
	tokenLifetime time.Duration
	logger        *slog.Logger

	// dummyHash is compared against when the username is unknown so that
	// failed logins take as long as wrong-password logins.
	dummyHash string
}

// Ensure AccountServiceImpl implements AccountService interface
var _ AccountService = (*AccountServiceImpl)(nil)

// NewAccountService creates a new AccountService issuing tokens valid for tokenLifetime.
func NewAccountService(
	users store.UserStore,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	tokenLifetime time.Duration,
	log *slog.Logger,
) (*AccountServiceImpl, error) {
	dummyHash, err := hasher.Hash("passgate-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &AccountServiceImpl{
		users:         users,
		tokens:        tokens,
		hasher:        hasher,
		tokenLifetime: tokenLifetime,
		logger:        log.With("component", "account_service"),
		dummyHash:     dummyHash,
	}, nil
}

func (s *AccountServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Register implements AccountService.Register.
func (s *AccountServiceImpl) Register(ctx context.Context, in RegisterInput) (string, error) {
	log := s.log(ctx)

	// Cheap early exit before paying for bcrypt; Create still enforces uniqueness.
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		log.Debug("attempted to register existing username", "username", in.Username)
		return "", store.ErrUsernameExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		log.Error("failed to look up username", "error", err, "username", in.Username)
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", domain.NewValidationError("password", "is too long", err)
		}
		log.Error("failed to hash password", "error", err, "username", in.Username)
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	user, err := domain.NewUser(in.Username, in.Email, hash, in.FullName)
	if err != nil {
		return "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("lost registration race for username", "username", in.Username)
		} else {
			log.Error("failed to save user", "error", err, "username", in.Username)
		}
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokens.IssueToken(ctx, user.Username, s.tokenLifetime)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user registered", "username", user.Username)
	return token, nil
}

// Login implements AccountService.Login.
func (s *AccountServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	log := s.log(ctx)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			log.Debug("login failed: unknown username", "username", username)
			return "", auth.ErrInvalidCredentials
		}
		log.Error("failed to look up user", "error", err, "username", username)
		return "", fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Debug("login failed: wrong password", "username", username)
			return "", auth.ErrInvalidCredentials
		}
		log.Error("failed to compare password", "error", err, "username", username)
		return "", fmt.Errorf("failed to authenticate user: %w", err)
	}

	token, err := s.tokens.IssueToken(ctx, user.Username, s.tokenLifetime)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	log.Debug("user logged in", "username", user.Username)
	return token, nil
}

// GetProfile implements AccountService.GetProfile.
func (s *AccountServiceImpl) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// CountUsers implements AccountService.CountUsers.
func (s *AccountServiceImpl) CountUsers(ctx context.Context) (int, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
