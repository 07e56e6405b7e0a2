// Package handler exposes the HTTP handlers of the public calendar, the
// admin area and authentication.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/calendar"
	"github.com/iliyamo/court-booking/internal/logging"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/service"
)

// dbTimeout bounds the store calls of one request.
const dbTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

var notFoundErrors = []error{
	repository.ErrCourtNotFound,
	repository.ErrScheduleNotFound,
	repository.ErrBookingNotFound,
	repository.ErrHolidayNotFound,
	repository.ErrProfileNotFound,
	sql.ErrNoRows,
}

// respondError maps err onto a status code and a JSON body. Unclassified
// errors are store failures and their message is passed through as is.
func respondError(c echo.Context, err error) error {
	var (
		vErr *calendar.ValidationError
		cErr *service.ConflictError
	)
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": vErr.Fields})
	case errors.As(err, &cErr):
		return c.JSON(http.StatusConflict, echo.Map{"error": cErr.Error(), "conflicts": cErr.BookingIDs})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
		}
	}
	logging.FromContext(c.Request().Context()).WithError(err).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

// fieldError is a one-field validation failure.
func fieldError(c echo.Context, field, msg string) error {
	v := &calendar.ValidationError{}
	v.Add(field, msg)
	return respondError(c, v)
}

// dateParam parses the query parameter name as YYYY-MM-DD. An absent
// parameter yields def.
func dateParam(c echo.Context, name string, def time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, true
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// today is the current date in UTC.
func today() time.Time { return calendar.Day(time.Now().UTC()) }
