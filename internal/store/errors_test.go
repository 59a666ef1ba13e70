package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantDuplicate bool
	}{
		{name: "user not found", err: ErrUserNotFound, wantNotFound: true},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", ErrUserNotFound), wantNotFound: true},
		{name: "username exists", err: ErrUsernameExists, wantDuplicate: true},
		{name: "generic duplicate", err: ErrDuplicate, wantDuplicate: true},
		{name: "invalid entity", err: ErrInvalidEntity},
		{name: "unrelated", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.wantDuplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	err := NewStoreError("user", "create", "username taken", ErrUsernameExists)
	assert.Equal(t, "create operation on user failed: username taken: entity already exists: username", err.Error())
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.ErrorIs(t, err, ErrDuplicate)

	bare := NewStoreError("user", "get", "no rows", nil)
	assert.Equal(t, "get operation on user failed: no rows", bare.Error())
	assert.NoError(t, bare.Unwrap())
}
