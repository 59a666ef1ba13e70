package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/passgate/internal/config"
	"github.com/phrazzld/passgate/internal/domain"
	"github.com/phrazzld/passgate/internal/platform/memory"
	"github.com/phrazzld/passgate/internal/service/auth"
	"github.com/phrazzld/passgate/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

type fixture struct {
	svc    *AccountServiceImpl
	users  *memory.UserStore
	tokens auth.TokenService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	tokens, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)

	users := memory.NewUserStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewAccountService(users, tokens, auth.NewBcryptHasher(bcrypt.MinCost), 30*time.Minute, log)
	require.NoError(t, err)

	return fixture{svc: svc, users: users, tokens: tokens}
}

// failingUserStore returns err from every operation.
type failingUserStore struct{ err error }

func (f failingUserStore) Create(context.Context, *domain.User) error { return f.err }
func (f failingUserStore) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingUserStore) Count(context.Context) (int, error) { return 0, f.err }

func TestRegister(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	claims, err := f.tokens.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.WithinDuration(t, claims.IssuedAt.Add(30*time.Minute), claims.ExpiresAt, time.Second)

	stored, err := f.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.NotEqual(t, "pw123", stored.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("pw123")))
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	in := RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw123"}

	_, err := f.svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, in)
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	n, err := f.svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterConcurrentSameUsername(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"username too long", RegisterInput{Username: strings.Repeat("c", 65), Email: "c@x.com", Password: "pw"}},
		{"empty username", RegisterInput{Username: "", Email: "c@x.com", Password: "pw"}},
		{"password too long", RegisterInput{Username: "carol", Email: "c@x.com", Password: string(make([]byte, 73))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		token, err := f.svc.Login(ctx, "alice", "pw123")
		require.NoError(t, err)
		claims, err := f.tokens.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.Login(ctx, "mallory", "pw123")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestStoreFailuresPropagate(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection refused")
	tokens, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	svc, err := NewAccountService(failingUserStore{err: boom}, tokens,
		auth.NewBcryptHasher(bcrypt.MinCost), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, boom)

	_, err = svc.Login(ctx, "alice", "pw")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.GetProfile(ctx, "alice")
	assert.ErrorIs(t, err, boom)

	_, err = svc.CountUsers(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestGetProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "pw123", FullName: "Alice Liddell",
	})
	require.NoError(t, err)

	user, err := f.svc.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", user.FullName)

	_, err = f.svc.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
