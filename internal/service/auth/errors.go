package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, its signature doesn't
	// match, or it is otherwise unusable. Every verification failure satisfies
	// errors.Is(err, ErrInvalidToken).
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired. It wraps ErrInvalidToken
	// so callers that do not care about the reason treat it as invalid.
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMalformedHeader indicates the Authorization header is not "Bearer <token>".
	ErrMalformedHeader = errors.New("invalid authorization header format")

	// ErrInvalidCredentials indicates an unknown username or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrForbidden indicates an authenticated caller lacks the required privilege.
	ErrForbidden = errors.New("insufficient privileges")

	// ErrPasswordTooLong indicates the password exceeds bcrypt's 72 byte input limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)
