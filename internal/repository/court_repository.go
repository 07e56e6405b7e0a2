package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/court-booking/internal/model"
)

// CourtRepo encapsulates all database queries related to courts.
type CourtRepo struct {
	db *sqlx.DB
}

func NewCourtRepo(db *sqlx.DB) *CourtRepo {
	return &CourtRepo{db: db}
}

const courtColumns = "id, name, location, description, is_active, created_at, updated_at"

// Create inserts a new court. ID and timestamps are assigned here.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	c.ID = uuid.NewString()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	const q = `INSERT INTO courts (id, name, location, description, is_active, created_at, updated_at)
	           VALUES (:id, :name, :location, :description, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, q, c)
	return err
}

// CreateWithSchedule inserts c and a schedule for it in one transaction.
// Either both rows are written or neither is.
func (r *CourtRepo) CreateWithSchedule(ctx context.Context, c *model.Court, s *model.CourtSchedule) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c.ID = uuid.NewString()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	if _, err = tx.NamedExecContext(ctx, `INSERT INTO courts (id, name, location, description, is_active, created_at, updated_at)
	           VALUES (:id, :name, :location, :description, :is_active, :created_at, :updated_at)`, c); err != nil {
		return err
	}

	s.ID = uuid.NewString()
	s.CourtID = c.ID
	s.CreatedAt = c.CreatedAt
	s.UpdatedAt = c.CreatedAt
	if _, err = tx.NamedExecContext(ctx, `INSERT INTO court_schedules (id, court_id, is_active, created_at, updated_at)
	           VALUES (:id, :court_id, :is_active, :created_at, :updated_at)`, s); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	s.CourtName = c.Name
	s.CourtIsActive = c.IsActive
	return nil
}

// GetByID fetches a court by its ID. It returns ErrCourtNotFound if no row is found.
func (r *CourtRepo) GetByID(ctx context.Context, id string) (*model.Court, error) {
	var c model.Court
	q := r.db.Rebind("SELECT " + courtColumns + " FROM courts WHERE id = ?")
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns courts ordered by name. activeOnly hides inactive courts.
func (r *CourtRepo) List(ctx context.Context, activeOnly bool) ([]model.Court, error) {
	q := "SELECT " + courtColumns + " FROM courts"
	var args []any
	if activeOnly {
		q += " WHERE is_active = ?"
		args = append(args, true)
	}
	q += " ORDER BY name, id"
	out := []model.Court{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes every editable field of c and refreshes updated_at.
func (r *CourtRepo) Update(ctx context.Context, c *model.Court) error {
	c.UpdatedAt = now()
	const q = `UPDATE courts
	           SET name = :name, location = :location, description = :description,
	               is_active = :is_active, updated_at = :updated_at
	           WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, c)
	if err != nil {
		return err
	}
	return r.ensureAffected(ctx, res, c.ID)
}

// ensureAffected maps a zero-row update to ErrCourtNotFound. MySQL reports
// zero affected rows when nothing changed, so existence is checked again.
func (r *CourtRepo) ensureAffected(ctx context.Context, res sql.Result, id string) error {
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err := r.GetByID(ctx, id)
	return err
}

// Delete removes a court together with its schedule and every booking that
// schedule owns. Bookings of other schedules that were displayed on this
// court lose their display override. All of it happens in one transaction.
func (r *CourtRepo) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var found string
	if err = tx.GetContext(ctx, &found, tx.Rebind("SELECT id FROM courts WHERE id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourtNotFound
		}
		return err
	}
	// Bookings owned by this court's schedule
	if _, err = tx.ExecContext(ctx, tx.Rebind(
		`DELETE FROM bookings WHERE schedule_id IN (SELECT id FROM court_schedules WHERE court_id = ?)`), id); err != nil {
		return err
	}
	// Bookings elsewhere that were moved onto this court
	if _, err = tx.ExecContext(ctx, tx.Rebind(
		`UPDATE bookings SET display_court_id = NULL, updated_at = ? WHERE display_court_id = ?`), now(), id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM court_schedules WHERE court_id = ?`), id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM courts WHERE id = ?`), id); err != nil {
		return err
	}
	return tx.Commit()
}
