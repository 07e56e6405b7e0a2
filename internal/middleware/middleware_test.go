package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/court-booking/internal/config"
	"github.com/iliyamo/court-booking/internal/logging"
	"github.com/iliyamo/court-booking/internal/utils"
)

const secret = "test-secret"

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func whoami(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user_id": UserID(c), "email": c.Get("email")})
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoami, JWTAuth(secret))

	t.Run("missing header", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, LoginPath, body["login"])
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, err := utils.NewAccessToken(secret, "user-1", "u@example.com", 5)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := serve(e, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, "u@example.com", body["email"])
	})
}

type stubRoles struct {
	roles map[string]bool
	err   error
	calls int
}

func (s *stubRoles) HasRole(_ context.Context, userID, role string) (bool, error) {
	s.calls++
	return s.roles[userID+"/"+role], s.err
}

func TestRequireRole(t *testing.T) {
	roles := &stubRoles{roles: map[string]bool{"admin-1/admin": true}}
	e := echo.New()
	e.GET("/admin", whoami, JWTAuth(secret), RequireRole(roles, "admin"))

	call := func(uid string) int {
		tok, err := utils.NewAccessToken(secret, uid, uid+"@example.com", 5)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		return serve(e, req).Code
	}

	assert.Equal(t, http.StatusOK, call("admin-1"))
	assert.Equal(t, http.StatusForbidden, call("user-2"))

	// revocation applies to the very next request
	roles.roles["admin-1/admin"] = false
	assert.Equal(t, http.StatusForbidden, call("admin-1"))
	assert.Equal(t, 3, roles.calls)

	roles.err = errors.New("store down")
	assert.Equal(t, http.StatusInternalServerError, call("admin-1"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	require.NoError(t, logging.Configure(logger, &buf, "info", "json"))

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/ping", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside")
		return c.String(http.StatusOK, "pong")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	rec := serve(e, req)
	assert.Equal(t, "rid-1", rec.Header().Get(HeaderRequestID))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, l := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal(l, &m))
		assert.Equal(t, "rid-1", m["request_id"])
	}

	buf.Reset()
	rec = serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	var m map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m))
	assert.EqualValues(t, http.StatusTeapot, m["status"])
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /v1/bookings", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
	c.Set("user_id", "u-1")
	assert.Equal(t, "rl:user:u-1", buildRateKey(cfg, c))
}

func TestDisabledRedisMiddlewarePassThrough(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil)
	assert.NoError(t, rc.Invalidate(context.Background()))

	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
	e.Use(rc.Read(), rc.InvalidateOnWrite())
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheKeyAndPayload(t *testing.T) {
	e := echo.New()
	ctxFor := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, 0, ctxFor("/v1/schedules/a/week?date=2024-05-06"))
	b := cacheKeyFrom(cfg, 0, ctxFor("/v1/schedules/b/week?date=2024-05-06"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, cacheKeyFrom(cfg, 0, ctxFor("/v1/schedules/a/week?date=2024-05-06")))
	assert.NotEqual(t, a, cacheKeyFrom(cfg, 1, ctxFor("/v1/schedules/a/week?date=2024-05-06")))

	hdr := http.Header{"Content-Type": {"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)
	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
