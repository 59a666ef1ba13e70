package domain

import "time"

// MaxUsernameLength bounds usernames so they fit the users table key.
const MaxUsernameLength = 64

// User is a registered account. Records are created on registration and are
// never updated or deleted.
type User struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	FullName       string    `json:"full_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser builds a User from an already hashed password and validates it.
// The caller hashes the plaintext password before calling NewUser.
func NewUser(username, email, hashedPassword, fullName string) (*User, error) {
	user := &User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       fullName,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data. Email and full name are free
// text; only the username key and the stored hash are constrained.
func (u *User) Validate() error {
	if u.Username == "" {
		return NewValidationError("username", "is required", ErrEmptyUsername)
	}
	if len(u.Username) > MaxUsernameLength {
		return NewValidationError("username", "is too long", ErrInvalidUsername)
	}

	if u.HashedPassword == "" {
		return NewValidationError("password", "hash is missing", ErrEmptyHashedPassword)
	}

	return nil
}
