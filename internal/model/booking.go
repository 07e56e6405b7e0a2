package model

import (
	"time"

	"github.com/iliyamo/court-booking/internal/calendar"
)

// Booking is a reservation of a time range on one date within a
// schedule. DisplayCourtID, when set, moves the booking onto another
// court for display and overlap purposes.
//
// The joined fields (ScheduleCourtID, ScheduleCourtName, DisplayCourtName)
// are filled by repository reads and ignored on insert.
type Booking struct {
	ID             string         `db:"id" json:"id"`
	ScheduleID     string         `db:"schedule_id" json:"schedule_id"`
	DisplayCourtID *string        `db:"display_court_id" json:"display_court_id"`
	Date           string         `db:"booking_date" json:"date"`
	StartTime      calendar.Clock `db:"start_time" json:"start_time"`
	EndTime        calendar.Clock `db:"end_time" json:"end_time"`
	CaseNumber     string         `db:"case_number" json:"case_number"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`

	ScheduleCourtID   string  `db:"schedule_court_id" json:"schedule_court_id"`
	ScheduleCourtName string  `db:"schedule_court_name" json:"schedule_court_name"`
	DisplayCourtName  *string `db:"display_court_name" json:"display_court_name,omitempty"`
}

// CourtKey is the court the booking occupies.
func (b Booking) CourtKey() string {
	if b.DisplayCourtID != nil && *b.DisplayCourtID != "" {
		return *b.DisplayCourtID
	}
	return b.ScheduleCourtID
}

// Calendar converts the row into the form the grid and overlap logic use.
func (b Booking) Calendar() (calendar.Booking, error) {
	d, err := calendar.ParseDate(b.Date)
	if err != nil {
		return calendar.Booking{}, err
	}
	out := calendar.Booking{
		ID:              b.ID,
		ScheduleID:      b.ScheduleID,
		ScheduleCourtID: b.ScheduleCourtID,
		Date:            d,
		Start:           b.StartTime,
		End:             b.EndTime,
		CaseNumber:      b.CaseNumber,
	}
	if b.DisplayCourtID != nil {
		out.DisplayCourtID = *b.DisplayCourtID
	}
	return out, nil
}

// CalendarBookings converts rows, skipping any with an unreadable date.
func CalendarBookings(rows []Booking) []calendar.Booking {
	out := make([]calendar.Booking, 0, len(rows))
	for _, r := range rows {
		cb, err := r.Calendar()
		if err != nil {
			continue
		}
		out = append(out, cb)
	}
	return out
}
