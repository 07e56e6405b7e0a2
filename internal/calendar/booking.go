package calendar

import "time"

// Booking is the calendar's view of a persisted booking.
type Booking struct {
	ID              string
	ScheduleID      string
	ScheduleCourtID string
	DisplayCourtID  string // empty when the booking shows under its schedule's court
	Date            time.Time
	Start           Clock
	End             Clock
	CaseNumber      string
}

// CourtKey is the court a booking is compared and displayed under: the
// display court when set, otherwise the owning schedule's court.
func (b Booking) CourtKey() string {
	if b.DisplayCourtID != "" {
		return b.DisplayCourtID
	}
	return b.ScheduleCourtID
}

// Span is the number of slots the booking covers.
func (b Booking) Span() int {
	return int(b.End-b.Start) / SlotLength
}

// Covers reports whether the slot starting at t on date lies inside the
// booking's half-open interval.
func (b Booking) Covers(date time.Time, t Clock) bool {
	return sameDay(b.Date, date) && b.Start <= t && t < b.End
}
