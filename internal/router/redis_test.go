package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/court-booking/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func limitConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestResponseCacheWeekView(t *testing.T) {
	mr, rdb := newRedis(t)
	s := newServerWith(t, rdb, cacheConfig(), config.RateLimitConfig{})
	admin := s.signup(t, adminEmail).access
	courtID, scheduleID := s.seedCourt(t, admin, "Court 1")
	week := "/v1/schedules/" + scheduleID + "/week?date=2024-05-08"

	get := func() (string, map[string]any) {
		rec := s.do(t, http.MethodGet, week, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return rec.Header().Get("X-Cache"), decode(t, rec)
	}

	state, view := get()
	assert.Equal(t, "MISS", state)
	assert.Len(t, view["bookings"], 0)
	state, view = get()
	assert.Equal(t, "HIT", state)
	assert.Len(t, view["bookings"], 0)

	t.Run("other query is its own entry", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/schedules/"+scheduleID+"/week?date=2024-05-15", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	})

	t.Run("booking drops cached views", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/v1/bookings", "", echo.Map{
			"schedule_id":      scheduleID,
			"display_court_id": courtID,
			"date":             "2024-05-06",
			"start_time":       "10:00",
			"end_time":         "10:30",
			"case_number":      "CV-1",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		state, view := get()
		assert.Equal(t, "MISS", state)
		assert.Len(t, view["bookings"], 1)
		state, _ = get()
		assert.Equal(t, "HIT", state)
	})

	t.Run("admin write drops cached views", func(t *testing.T) {
		gen, err := mr.Get("cache:gen")
		require.NoError(t, err)

		rec := s.do(t, http.MethodPost, "/v1/admin/holidays", admin, echo.Map{"date": "2024-05-07", "name": "Memorial day"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		next, err := mr.Get("cache:gen")
		require.NoError(t, err)
		assert.NotEqual(t, gen, next)

		state, view := get()
		assert.Equal(t, "MISS", state)
		days := view["days"].([]any)
		assert.Equal(t, "Memorial day", days[2].(map[string]any)["holiday_name"])
	})

	t.Run("failed writes keep the cache", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/v1/admin/holidays", admin, echo.Map{"date": "2024-05-07", "name": "Again"})
		require.Equal(t, http.StatusConflict, rec.Code)
		state, _ := get()
		assert.Equal(t, "HIT", state)
	})
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	_, rdb := newRedis(t)
	s := newServerWith(t, rdb, cacheConfig(), config.RateLimitConfig{})

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodGet, "/v1/schedules/missing/week", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
}

func TestTokenBucketLimitsBookings(t *testing.T) {
	_, rdb := newRedis(t)
	s := newServerWith(t, rdb, config.CacheConfig{}, limitConfig(2))
	admin := s.signup(t, adminEmail).access
	courtID, scheduleID := s.seedCourt(t, admin, "Court 1")

	book := func(start, end string) *httptest.ResponseRecorder {
		return s.do(t, http.MethodPost, "/v1/bookings", "", echo.Map{
			"schedule_id":      scheduleID,
			"display_court_id": courtID,
			"date":             "2024-05-06",
			"start_time":       start,
			"end_time":         end,
			"case_number":      "CV-" + start,
		})
	}

	rec := book("10:00", "10:30")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, http.StatusCreated, book("11:00", "11:30").Code)

	rec = book("12:00", "12:30")
	require.Equal(t, http.StatusTooManyRequests, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "too_many_requests", body["error"])
	assert.Greater(t, body["retry_after"].(float64), float64(0))
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retry, 0)

	// the rejected request never reached the handler
	rec = s.do(t, http.MethodGet, "/v1/schedules/"+scheduleID+"/bookings?date=2024-05-06", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 2)

	// buckets are per route
	rec = s.do(t, http.MethodPost, "/v1/auth/login", "", echo.Map{"email": adminEmail, "password": "correct horse"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
