package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	tests := []string{"pw123", "testpassword", "тест123", strings.Repeat("x", 72)}
	for _, password := range tests {
		t.Run(password[:min(len(password), 12)], func(t *testing.T) {
			t.Parallel()
			hash, err := hasher.Hash(password)
			require.NoError(t, err)
			assert.NotEqual(t, password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2"), "bcrypt hash format")

			assert.NoError(t, hasher.Compare(hash, password))
			assert.ErrorIs(t, hasher.Compare(hash, password+"x"), ErrInvalidCredentials)
			assert.ErrorIs(t, hasher.Compare(hash, "wrong"), ErrInvalidCredentials)
		})
	}
}

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	first, err := hasher.Hash("pw123")
	require.NoError(t, err)
	second, err := hasher.Hash("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	t.Parallel()

	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(strings.Repeat("x", 73))

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestBcryptHasherRejectsLongCandidate(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	stored := strings.Repeat("p", 72)
	hash, err := hasher.Hash(stored)
	require.NoError(t, err)

	assert.ErrorIs(t, hasher.Compare(hash, stored+"WRONG-SUFFIX"), ErrInvalidCredentials)
	assert.ErrorIs(t, hasher.Compare(hash, stored+"p"), ErrInvalidCredentials)
}

func TestBcryptHasherMalformedHash(t *testing.T) {
	t.Parallel()

	err := NewBcryptHasher(bcrypt.MinCost).Compare("not-a-hash", "pw123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewBcryptHasherCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12, NewBcryptHasher(12).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost())
}
