package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/phrazzld/passgate/internal/api/shared"
	"github.com/phrazzld/passgate/internal/domain"
	"github.com/phrazzld/passgate/internal/service/auth"
	"github.com/phrazzld/passgate/internal/store"
)

type contextKey int

const (
	identityKey contextKey = iota
	userKey
)

// AuthMiddleware provides bearer token authentication for routes.
type AuthMiddleware struct {
	tokens auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate resolves the caller of r from its Authorization header.
// Every failure is one of auth.ErrMissingToken, auth.ErrMalformedHeader,
// auth.ErrInvalidToken (including auth.ErrExpiredToken) or domain.ErrMissingSubject.
func (m *AuthMiddleware) Authenticate(r *http.Request) (*domain.Identity, error) {
	token, err := auth.ParseBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.VerifyToken(r.Context(), token)
	if err != nil {
		return nil, err
	}

	return domain.NewIdentity(claims.Payload)
}

// AuthenticateOptional is like Authenticate but never fails: any problem
// yields nil.
func (m *AuthMiddleware) AuthenticateOptional(r *http.Request) *domain.Identity {
	identity, err := m.Authenticate(r)
	if err != nil {
		return nil
	}
	return identity
}

// RequireAuth rejects requests without a valid bearer token with 401 and a
// Bearer challenge. The resolved identity is stored in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.Authenticate(r)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				shared.CredentialsErrorMessage, authFailureReason(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// OptionalAuth stores the identity in the request context when a valid token
// is presented and otherwise passes the request through untouched.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity := m.AuthenticateOptional(r); identity != nil {
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// authFailureReason labels a missing subject for the log; the client
// always sees the same message.
func authFailureReason(err error) error {
	if errors.Is(err, domain.ErrMissingSubject) {
		return fmt.Errorf("invalid token payload: %w", err)
	}
	return err
}

// RequireActiveUser must run after RequireAuth. It rejects identities whose
// subject is no longer in users and stores the user record in the context.
func RequireActiveUser(users store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CredentialsErrorMessage)
				return
			}

			user, err := users.GetByUsername(r.Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
						shared.CredentialsErrorMessage, err)
					return
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"An unexpected error occurred", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// RequireAdmin must run after RequireAuth. Identities not listed in admins
// get 403 Forbidden.
func RequireAdmin(admins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CredentialsErrorMessage)
				return
			}

			if !slices.Contains(admins, identity.UserID) {
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
					shared.ForbiddenErrorMessage, fmt.Errorf("user %q: %w", identity.UserID, auth.ErrForbidden),
					shared.WithElevatedLogLevel())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored by RequireAuth or OptionalAuth.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// UserFromContext returns the user record stored by RequireActiveUser.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}
