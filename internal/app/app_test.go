package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/court-booking/internal/config"
	"github.com/iliyamo/court-booking/internal/database"
	"github.com/iliyamo/court-booking/internal/logging"
	"github.com/iliyamo/court-booking/internal/middleware"
)

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		Port:           "0",
		DBDriver:       database.DriverSQLite,
		DBDSN:          ":memory:",
		AutoMigrate:    true,
		JWTSecret:      "app-secret",
		AccessTTLMin:   5,
		RefreshTTLDays: 1,
		BcryptCost:     4,
	}
}

func TestNewServesRoutes(t *testing.T) {
	var out bytes.Buffer
	logger := logrus.New()
	require.NoError(t, logging.Configure(logger, &out, "info", "json"))

	a, err := New(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/courts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/admin/courts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Contains(t, out.String(), "schema migrated")
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DBDriver = "oracle"
	_, err := New(context.Background(), cfg, logrus.New())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	a, err := New(context.Background(), testConfig(), logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
