package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/court-booking/internal/model"
)

// ScheduleRepo persists court schedules. Every read joins the owning court.
type ScheduleRepo struct {
	db *sqlx.DB
}

func NewScheduleRepo(db *sqlx.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

const scheduleSelect = `SELECT s.id, s.court_id, s.is_active, s.created_at, s.updated_at,
       c.name AS court_name, c.is_active AS court_is_active
FROM court_schedules s
JOIN courts c ON c.id = s.court_id`

// Create inserts a schedule for s.CourtID. A court has at most one schedule;
// a second one yields ErrConflict. The court must exist.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.CourtSchedule) error {
	var courtName string
	var courtActive bool
	row := r.db.QueryRowxContext(ctx, r.db.Rebind("SELECT name, is_active FROM courts WHERE id = ?"), s.CourtID)
	if err := row.Scan(&courtName, &courtActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourtNotFound
		}
		return err
	}

	s.ID = uuid.NewString()
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	const q = `INSERT INTO court_schedules (id, court_id, is_active, created_at, updated_at)
	           VALUES (:id, :court_id, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, s); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	s.CourtName = courtName
	s.CourtIsActive = courtActive
	return nil
}

// GetByID returns ErrScheduleNotFound when no row matches.
func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (*model.CourtSchedule, error) {
	var s model.CourtSchedule
	if err := r.db.GetContext(ctx, &s, r.db.Rebind(scheduleSelect+" WHERE s.id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByCourt returns the schedule owned by courtID.
func (r *ScheduleRepo) GetByCourt(ctx context.Context, courtID string) (*model.CourtSchedule, error) {
	var s model.CourtSchedule
	if err := r.db.GetContext(ctx, &s, r.db.Rebind(scheduleSelect+" WHERE s.court_id = ?"), courtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns schedules ordered by court name. With visibleOnly set, only
// active schedules of active courts are returned.
func (r *ScheduleRepo) List(ctx context.Context, visibleOnly bool) ([]model.CourtSchedule, error) {
	q := scheduleSelect
	var args []any
	if visibleOnly {
		q += " WHERE s.is_active = ? AND c.is_active = ?"
		args = append(args, true, true)
	}
	q += " ORDER BY c.name, s.id"
	out := []model.CourtSchedule{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive toggles the schedule and refreshes updated_at.
func (r *ScheduleRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE court_schedules SET is_active = ?, updated_at = ? WHERE id = ?"),
		active, now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, id)
	return err
}

// Delete removes the schedule and its bookings in one transaction.
func (r *ScheduleRepo) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM bookings WHERE schedule_id = ?"), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM court_schedules WHERE id = ?"), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrScheduleNotFound
		return err
	}
	return tx.Commit()
}
