package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/court-booking/internal/model"
)

// HolidayRepo persists holidays. holiday_date is unique.
type HolidayRepo struct {
	db *sqlx.DB
}

func NewHolidayRepo(db *sqlx.DB) *HolidayRepo {
	return &HolidayRepo{db: db}
}

const holidayColumns = "id, holiday_date, name, created_at, updated_at"

func (r *HolidayRepo) Create(ctx context.Context, h *model.Holiday) error {
	h.ID = uuid.NewString()
	h.CreatedAt = now()
	h.UpdatedAt = h.CreatedAt
	const q = `INSERT INTO holidays (id, holiday_date, name, created_at, updated_at)
	           VALUES (:id, :holiday_date, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, h); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *HolidayRepo) GetByID(ctx context.Context, id string) (*model.Holiday, error) {
	var h model.Holiday
	q := r.db.Rebind("SELECT " + holidayColumns + " FROM holidays WHERE id = ?")
	if err := r.db.GetContext(ctx, &h, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHolidayNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns holidays ordered by date. Empty bounds are open.
func (r *HolidayRepo) List(ctx context.Context, from, to string) ([]model.Holiday, error) {
	q := "SELECT " + holidayColumns + " FROM holidays WHERE 1 = 1"
	var args []any
	if from != "" {
		q += " AND holiday_date >= ?"
		args = append(args, from)
	}
	if to != "" {
		q += " AND holiday_date <= ?"
		args = append(args, to)
	}
	q += " ORDER BY holiday_date"
	out := []model.Holiday{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes date and name. Moving onto a date that already has a
// holiday yields ErrConflict.
func (r *HolidayRepo) Update(ctx context.Context, h *model.Holiday) error {
	h.UpdatedAt = now()
	const q = `UPDATE holidays SET holiday_date = :holiday_date, name = :name, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, h)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, h.ID)
	return err
}

func (r *HolidayRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM holidays WHERE id = ?"), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHolidayNotFound
	}
	return nil
}
