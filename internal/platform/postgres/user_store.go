package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/passgate/internal/domain"
	"github.com/phrazzld/passgate/internal/platform/logger"
	"github.com/phrazzld/passgate/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db store.DBTX
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// db may be a pool or a transaction; its lifecycle is managed by the caller.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Create implements store.UserStore.Create. Uniqueness is enforced by the
// primary key, so concurrent registrations of one username cannot both succeed.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, hashed_password, full_name, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.Username, user.Email, user.HashedPassword, user.FullName, user.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("username already exists", "username", user.Username)
			return MapUniqueViolation(err, store.ErrUsernameExists)
		}
		log.Error("failed to insert user", "error", err, "username", user.Username)
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	return nil
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT username, email, hashed_password, full_name, created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&user.Username, &user.Email, &user.HashedPassword, &user.FullName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// Count implements store.UserStore.Count.
func (s *PostgresUserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, store.NewStoreError("user", "count", "query failed", MapError(err))
	}
	return n, nil
}
