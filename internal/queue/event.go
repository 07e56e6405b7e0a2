// Package queue defines the booking events published to the message
// broker and the publisher that sends them.
package queue

import (
	"time"

	"github.com/iliyamo/court-booking/internal/model"
)

// Routing keys on the booking exchange.
const (
	RouteBookingCreated = "booking.created"
	RouteBookingDeleted = "booking.deleted"
)

// BookingEvent carries enough of a booking for downstream consumers to
// log or notify without querying the primary database.
type BookingEvent struct {
	BookingID  string `json:"booking_id"`
	ScheduleID string `json:"schedule_id"`
	CourtID    string `json:"court_id"`
	CourtName  string `json:"court_name"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	CaseNumber string `json:"case_number"`
	OccurredAt string `json:"occurred_at"`
}

// NewBookingEvent builds the payload for b. CourtID is the court the
// booking occupies.
func NewBookingEvent(b model.Booking, at time.Time) BookingEvent {
	name := b.ScheduleCourtName
	if b.DisplayCourtName != nil && *b.DisplayCourtName != "" {
		name = *b.DisplayCourtName
	}
	return BookingEvent{
		BookingID:  b.ID,
		ScheduleID: b.ScheduleID,
		CourtID:    b.CourtKey(),
		CourtName:  name,
		Date:       b.Date,
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		CaseNumber: b.CaseNumber,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
