package model

import "time"

// Court represents a physical court that can be booked. A court owns
// at most one CourtSchedule. Inactive courts stay in the database but
// are hidden from the public calendar.
//
// Fields:
//  ID          – primary key (UUID).
//  Name        – display name of the court.
//  Location    – free-form location text.
//  Description – free-form description, may be empty.
//  IsActive    – whether the court is visible publicly.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Court struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Location    string    `db:"location" json:"location"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourtSchedule is the bookable calendar of one court. Reads join the
// owning court so callers get its name and visibility without a second
// query.
type CourtSchedule struct {
	ID        string    `db:"id" json:"id"`
	CourtID   string    `db:"court_id" json:"court_id"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	CourtName     string `db:"court_name" json:"court_name"`
	CourtIsActive bool   `db:"court_is_active" json:"court_is_active"`
}

// Visible reports whether the schedule should appear on the public calendar.
func (s CourtSchedule) Visible() bool { return s.IsActive && s.CourtIsActive }
