// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields for per-test behavior and plain value
// fields for the common case, so tests can write:
//
//	tokens := &mocks.MockTokenService{
//	    VerifyTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks
