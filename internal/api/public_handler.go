package api

import (
	"net/http"

	"github.com/phrazzld/passgate/internal/api/middleware"
	"github.com/phrazzld/passgate/internal/api/shared"
)

// GreetingMessage is the message returned by the root endpoint.
const GreetingMessage = "Hello, passgate!"

// Root handles GET /. It runs behind OptionalAuth.
func Root(w http.ResponseWriter, r *http.Request) {
	resp := GreetingResponse{Message: GreetingMessage}
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		resp.UserID = identity.UserID
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetItem handles GET /items/{item_id}?q=.
func GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := getPathInt(r, "item_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := ItemResponse{ItemID: itemID}
	if r.URL.Query().Has("q") {
		q := r.URL.Query().Get("q")
		resp.Q = &q
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
