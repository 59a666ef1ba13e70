package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/passgate/internal/api/middleware"
	"github.com/phrazzld/passgate/internal/domain"
	"github.com/phrazzld/passgate/internal/mocks"
	"github.com/phrazzld/passgate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserHandler(t *testing.T, users *mocks.MockUserStore) *UserHandler {
	t.Helper()
	accounts, err := service.NewAccountService(users, &mocks.MockTokenService{Token: "t"},
		&mocks.MockPasswordHasher{}, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return NewUserHandler(accounts)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	alice, err := domain.NewUser("alice", "a@x.com", "hashed:pw", "Alice Liddell")
	require.NoError(t, err)
	users := mocks.NewMockUserStore(alice)
	h := newUserHandler(t, users)

	guard := middleware.NewAuthMiddleware(&mocks.MockTokenService{Claims: mocks.ClaimsFor("alice")})
	handler := guard.RequireAuth(middleware.RequireActiveUser(users)(http.HandlerFunc(h.Profile)))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","email":"a@x.com","full_name":"Alice Liddell"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Profile(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminStats(t *testing.T) {
	t.Parallel()

	alice, err := domain.NewUser("alice", "a@x.com", "hashed:pw", "")
	require.NoError(t, err)
	bob, err := domain.NewUser("bob", "b@x.com", "hashed:pw", "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newUserHandler(t, mocks.NewMockUserStore(alice, bob)).AdminStats(rec,
		httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_count":2}`, rec.Body.String())

	failing := &mocks.MockUserStore{
		CountFn: func(context.Context) (int, error) { return 0, assert.AnError },
	}
	rec = httptest.NewRecorder()
	newUserHandler(t, failing).AdminStats(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
