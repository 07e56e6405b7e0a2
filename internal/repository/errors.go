// Package repository holds the SQL data access layer. Sentinel errors
// defined here let handlers and services tell failure scenarios apart
// without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

var (
	ErrCourtNotFound    = errors.New("court not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrHolidayNotFound  = errors.New("holiday not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrTokenNotFound    = errors.New("refresh token not found")
)

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as a second schedule for the same court or two holidays on one
// date. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is the ErrConflict flavour returned for duplicate signups.
var ErrEmailExists = errors.New("email already exists")

// isUniqueViolation recognizes duplicate key errors from every supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc.org/sqlite
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// now is the timestamp written to created_at/updated_at columns.
func now() time.Time { return time.Now().UTC().Truncate(time.Second) }
