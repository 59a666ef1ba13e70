package api

import (
	"net/http"

	"github.com/phrazzld/passgate/internal/api/middleware"
	"github.com/phrazzld/passgate/internal/api/shared"
	"github.com/phrazzld/passgate/internal/platform/logger"
	"github.com/phrazzld/passgate/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	accounts service.AccountService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts service.AccountService) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   TokenType,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLoginRequest(w, r)
	if !ok {
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   TokenType,
	})
}

// Me handles GET /auth/me. It echoes the identity resolved by RequireAuth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("identity missing from request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CredentialsErrorMessage)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, identity)
}
