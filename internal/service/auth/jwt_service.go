package auth

import (
	"context"
	"time"
)

// DefaultTokenLifetime is used when IssueToken is called with a non-positive ttl.
const DefaultTokenLifetime = 15 * time.Minute

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService interface {
	// IssueToken creates a signed token whose "sub" claim is subject and whose
	// "exp" claim is now+ttl. A non-positive ttl means DefaultTokenLifetime.
	IssueToken(ctx context.Context, subject string, ttl time.Duration) (string, error)

	// VerifyToken checks the signature and expiry of tokenString and returns
	// its claims. Failures wrap ErrInvalidToken; expiry is ErrExpiredToken.
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string

	// Payload is the full decoded claim set, as carried by the token.
	Payload map[string]any
}
