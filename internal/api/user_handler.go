package api

import (
	"net/http"

	"github.com/phrazzld/passgate/internal/api/middleware"
	"github.com/phrazzld/passgate/internal/api/shared"
	"github.com/phrazzld/passgate/internal/service"
)

// UserHandler serves endpoints that need the caller's stored record.
type UserHandler struct {
	accounts service.AccountService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Profile handles GET /protected. RequireActiveUser has already loaded the
// caller's record.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CredentialsErrorMessage)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
}

// AdminStats handles GET /admin.
func (h *UserHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.accounts.CountUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AdminStatsResponse{UserCount: count})
}
