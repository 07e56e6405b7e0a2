// Package service orchestrates the booking lifecycle and composes the
// public week view on top of the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/court-booking/internal/model"
)

// ErrConflict is matched by every *ConflictError.
var ErrConflict = errors.New("booking overlaps an existing booking")

// ConflictError lists the bookings a proposal collides with.
type ConflictError struct {
	CourtID    string
	Date       string
	BookingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s on court %s at %s (%s)",
		ErrConflict.Error(), e.CourtID, e.Date, strings.Join(e.BookingIDs, ", "))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Store interfaces satisfied by the repository package.

type CourtReader interface {
	GetByID(ctx context.Context, id string) (*model.Court, error)
	List(ctx context.Context, activeOnly bool) ([]model.Court, error)
}

type ScheduleReader interface {
	GetByID(ctx context.Context, id string) (*model.CourtSchedule, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListBySchedule(ctx context.Context, scheduleID, from, to string) ([]model.Booking, error)
	ListForCourt(ctx context.Context, date, courtID string) ([]model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type HolidayReader interface {
	List(ctx context.Context, from, to string) ([]model.Holiday, error)
}

// EventPublisher sends booking events. Failures are logged, never returned
// to the caller of the booking operation.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Invalidator drops cached public responses after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
