package store

import (
	"context"

	"github.com/phrazzld/passgate/internal/domain"
)

// UserStore defines the interface for credential persistence.
// Implementations must make Create an atomic insert-if-absent.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrUsernameExists if the username is already taken and
	// ErrInvalidEntity if the user fails domain validation.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
}
