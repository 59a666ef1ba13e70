package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/passgate/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthScenario(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, testConfig())
	c := client{t: t, router: app.setupRouter()}

	rec := c.register("alice", "a@x.com", "pw123")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	registerToken := accessToken(t, rec)
	assert.Len(t, strings.Split(registerToken, "."), 3)

	rec = c.login("alice", "pw123")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loginToken := accessToken(t, rec)

	rec = c.login("alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = c.get("/auth/me", loginToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		UserID       string         `json:"user_id"`
		TokenPayload map[string]any `json:"token_payload"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.UserID)
	assert.Equal(t, "alice", me.TokenPayload["sub"])

	rec = c.get("/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = c.register("alice", "other@x.com", "pw456")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already registered")
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := func() time.Time { return now }
	cfg := testConfig()
	tokens, err := auth.NewJWTService(cfg.Auth, auth.WithTimeFunc(func() time.Time { return clock() }))
	require.NoError(t, err)

	app := newTestApp(t, cfg, withTokenService(tokens))
	c := client{t: t, router: app.setupRouter()}

	token := accessToken(t, c.register("alice", "a@x.com", "pw123"))
	require.Equal(t, http.StatusOK, c.get("/auth/me", token).Code)

	later := now.Add(31 * time.Minute)
	clock = func() time.Time { return later }

	rec := c.get("/auth/me", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not validate credentials")
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, testConfig())
	c := client{t: t, router: app.setupRouter()}

	rec := c.get("/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello, passgate!"}`, rec.Body.String())

	token := accessToken(t, c.register("alice", "a@x.com", "pw123"))
	rec = c.get("/", token)
	assert.JSONEq(t, `{"message":"Hello, passgate!","user_id":"alice"}`, rec.Body.String())

	rec = c.get("/", "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello, passgate!"}`, rec.Body.String())

	rec = c.get("/items/42?q=somequery", "")
	assert.JSONEq(t, `{"item_id":42,"q":"somequery"}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, c.get("/items/foo", "").Code)

	rec = c.get("/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = c.get("/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/items/{item_id}"`)
}

func TestProtectedAndAdminRoutes(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, testConfig())
	c := client{t: t, router: app.setupRouter()}

	aliceToken := accessToken(t, c.register("alice", "a@x.com", "pw123"))
	rootToken := accessToken(t, c.register("root", "root@x.com", "pw123"))

	rec := c.get("/protected", aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","email":"a@x.com","full_name":""}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, c.get("/protected", "").Code)

	ghostToken, err := app.tokenService.IssueToken(t.Context(), "ghost", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, c.get("/protected", ghostToken).Code)

	rec = c.get("/admin", aliceToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough permissions")

	rec = c.get("/admin", rootToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_count":2}`, rec.Body.String())
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.RateLimit.LoginPerMinute = 2
	app := newTestApp(t, cfg)
	c := client{t: t, router: app.setupRouter()}

	require.Equal(t, http.StatusOK, c.register("alice", "a@x.com", "pw123").Code)

	assert.Equal(t, http.StatusOK, c.login("alice", "pw123").Code)
	assert.Equal(t, http.StatusUnauthorized, c.login("alice", "wrong").Code)

	rec := c.login("alice", "pw123")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestSeedDemoUser(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Auth.SeedDemoUser = true
	app := newTestApp(t, cfg)
	c := client{t: t, router: app.setupRouter()}

	rec := c.login("testuser", "testpassword")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.get("/protected", accessToken(t, rec))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"testuser","email":"test@example.com","full_name":"Test User"}`, rec.Body.String())
}

func TestLoginRejectsPasswordSharingBcryptPrefix(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, testConfig())
	c := client{t: t, router: app.setupRouter()}

	password := strings.Repeat("p", 72)
	require.Equal(t, http.StatusOK, c.register("carol", "c@x.com", password).Code)

	assert.Equal(t, http.StatusOK, c.login("carol", password).Code)

	rec := c.login("carol", password+"WRONG-SUFFIX")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.NotContains(t, rec.Body.String(), "access_token")
}

func TestRegisterAcceptsFreeTextFields(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, testConfig())
	c := client{t: t, router: app.setupRouter()}

	assert.Equal(t, http.StatusOK, c.register("bob", "bob", "pw").Code)
	assert.Equal(t, http.StatusOK, c.register("dave", "dave@localhost", "pw").Code)
	assert.Equal(t, http.StatusOK, c.register("erin smith", "e@x.com", "pw").Code)

	rec := c.register("frank", "f@x.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, c.login("frank", "").Code)

	body := `{"username":"grace","email":"g@x.com","password":"pw","is_admin":true}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, c.do(req).Code)
}

func TestPanickingHandlerIsCounted(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, testConfig())
	router := app.setupRouter()
	router.(chi.Router).Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	c := client{t: t, router: router}

	assert.Equal(t, http.StatusInternalServerError, c.get("/boom", "").Code)

	rec := c.get("/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `passgate_api_http_requests_total{method="GET",route="/boom",status="500"} 1`)
}
