package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/court-booking/internal/model"
)

// BookingRepo persists bookings. Reads expand the owning schedule's court
// and the display court's name.
type BookingRepo struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingSelect = `SELECT b.id, b.schedule_id, b.display_court_id, b.booking_date, b.start_time, b.end_time,
       b.case_number, b.created_at, b.updated_at,
       s.court_id AS schedule_court_id, sc.name AS schedule_court_name, dc.name AS display_court_name
FROM bookings b
JOIN court_schedules s ON s.id = b.schedule_id
JOIN courts sc ON sc.id = s.court_id
LEFT JOIN courts dc ON dc.id = b.display_court_id`

const bookingOrder = " ORDER BY b.booking_date, b.start_time, b.id"

// Create inserts b. ID and timestamps are assigned here; the joined fields
// are left as the caller set them.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.ID = uuid.NewString()
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	const q = `INSERT INTO bookings (id, schedule_id, display_court_id, booking_date, start_time, end_time,
	                                 case_number, created_at, updated_at)
	           VALUES (:id, :schedule_id, :display_court_id, :booking_date, :start_time, :end_time,
	                   :case_number, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, q, b)
	return err
}

// GetByID returns ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.GetContext(ctx, &b, r.db.Rebind(bookingSelect+" WHERE b.id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBySchedule returns the schedule's bookings with from <= date <= to.
// Dates are YYYY-MM-DD so string comparison is date order.
func (r *BookingRepo) ListBySchedule(ctx context.Context, scheduleID, from, to string) ([]model.Booking, error) {
	q := bookingSelect + " WHERE b.schedule_id = ? AND b.booking_date >= ? AND b.booking_date <= ?" + bookingOrder
	out := []model.Booking{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), scheduleID, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForCourt returns every booking on date that occupies courtID, across
// all schedules: those displayed on it, and those without a display
// override whose schedule belongs to it.
func (r *BookingRepo) ListForCourt(ctx context.Context, date, courtID string) ([]model.Booking, error) {
	q := bookingSelect + ` WHERE b.booking_date = ?
  AND (b.display_court_id = ? OR (b.display_court_id IS NULL AND s.court_id = ?))` + bookingOrder
	out := []model.Booking{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), date, courtID, courtID); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a booking. It returns ErrBookingNotFound when nothing was deleted.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM bookings WHERE id = ?"), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
