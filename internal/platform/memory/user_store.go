package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/passgate/internal/domain"
	"github.com/phrazzld/passgate/internal/store"
)

// UserStore implements store.UserStore with a map keyed by username.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

// Create implements store.UserStore.Create. The existence check and the
// insert happen under one lock.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return store.ErrUsernameExists
	}
	s.users[user.Username] = *user
	return nil
}

// GetByUsername implements store.UserStore.GetByUsername.
// The returned user is a copy; mutating it does not affect the store.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// Count implements store.UserStore.Count.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
