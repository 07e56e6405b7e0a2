package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/court-booking/internal/calendar"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/service"
)

func respond(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, respondError(c, err))
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespondError(t *testing.T) {
	v := &calendar.ValidationError{}
	v.Add("date", "required")
	code, body := respond(t, v)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]any{"date": "required"}, body["fields"])

	code, body = respond(t, &service.ConflictError{CourtID: "k", Date: "2024-05-06", BookingIDs: []string{"b1"}})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, []any{"b1"}, body["conflicts"])

	code, _ = respond(t, repository.ErrConflict)
	assert.Equal(t, http.StatusConflict, code)

	code, body = respond(t, fmt.Errorf("load: %w", repository.ErrScheduleNotFound))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, repository.ErrScheduleNotFound.Error(), body["error"])

	code, body = respond(t, errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "disk on fire", body["error"])
}

func TestDateParam(t *testing.T) {
	e := echo.New()
	def := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	ctx := func(q string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, "/?"+q, nil), httptest.NewRecorder())
	}

	got, ok := dateParam(ctx(""), "date", def)
	assert.True(t, ok)
	assert.Equal(t, def, got)

	got, ok = dateParam(ctx("date=2024-05-08"), "date", def)
	assert.True(t, ok)
	assert.Equal(t, "2024-05-08", calendar.FormatDate(got))

	_, ok = dateParam(ctx("date=08.05.2024"), "date", def)
	assert.False(t, ok)
}
