package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/passgate/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	// IssueTokenFn allows test cases to mock the IssueToken behavior
	IssueTokenFn func(ctx context.Context, subject string, ttl time.Duration) (string, error)

	// VerifyTokenFn allows test cases to mock the VerifyToken behavior
	VerifyTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	Claims      *auth.Claims
	VerifyErr   error
	VerifyCalls int
}

// Ensure MockTokenService implements auth.TokenService
var _ auth.TokenService = (*MockTokenService)(nil)

// IssueToken implements the auth.TokenService interface
func (m *MockTokenService) IssueToken(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, subject, ttl)
	}
	return m.Token, m.Err
}

// VerifyToken implements the auth.TokenService interface
func (m *MockTokenService) VerifyToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	m.VerifyCalls++
	if m.VerifyTokenFn != nil {
		return m.VerifyTokenFn(ctx, tokenString)
	}
	return m.Claims, m.VerifyErr
}

// ClaimsFor builds verified claims for subject, as the real service would
// return them.
func ClaimsFor(subject string) *auth.Claims {
	now := time.Now()
	return &auth.Claims{
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(auth.DefaultTokenLifetime),
		Payload: map[string]any{
			"sub": subject,
			"iat": float64(now.Unix()),
			"exp": float64(now.Add(auth.DefaultTokenLifetime).Unix()),
		},
	}
}
