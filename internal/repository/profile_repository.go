package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/utils"
)

// ProfileRepo persists accounts and their roles.
type ProfileRepo struct{ db *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileColumns = "id, email, full_name, password_hash, created_at, updated_at"

// Create provisions a profile seeded from the signup data and returns it.
func (r *ProfileRepo) Create(ctx context.Context, email, password string, fullName *string, cost int) (*model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	if fullName != nil {
		if v := strings.TrimSpace(*fullName); v != "" {
			fullName = &v
		} else {
			fullName = nil
		}
	}
	p := &model.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    now(),
	}
	p.UpdatedAt = p.CreatedAt
	const q = `INSERT INTO profiles (id, email, full_name, password_hash, created_at, updated_at)
	           VALUES (:id, :email, :full_name, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, p); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return p, nil
}

// GetByEmail fetches a profile by normalized email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "email", email)
}

// GetByID fetches a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return r.getOne(ctx, "id", id)
}

func (r *ProfileRepo) getOne(ctx context.Context, column, value string) (*model.Profile, error) {
	var p model.Profile
	q := r.db.Rebind("SELECT " + profileColumns + " FROM profiles WHERE " + column + " = ?")
	if err := r.db.GetContext(ctx, &p, q, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// HasRole reports whether userID holds role.
func (r *ProfileRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var n int
	q := r.db.Rebind("SELECT COUNT(*) FROM user_roles WHERE user_id = ? AND role = ?")
	if err := r.db.GetContext(ctx, &n, q, userID, role); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Roles lists the roles held by userID in name order.
func (r *ProfileRepo) Roles(ctx context.Context, userID string) ([]string, error) {
	out := []string{}
	q := r.db.Rebind("SELECT role FROM user_roles WHERE user_id = ? ORDER BY role")
	if err := r.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// GrantRole is idempotent: granting a held role is not an error.
func (r *ProfileRepo) GrantRole(ctx context.Context, userID, role string) error {
	if _, err := r.GetByID(ctx, userID); err != nil {
		return err
	}
	ur := model.UserRole{ID: uuid.NewString(), UserID: userID, Role: role, CreatedAt: now()}
	const q = `INSERT INTO user_roles (id, user_id, role, created_at) VALUES (:id, :user_id, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, ur); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

// RevokeRole removes role from userID. Revoking a role that is not held is a no-op.
func (r *ProfileRepo) RevokeRole(ctx context.Context, userID, role string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("DELETE FROM user_roles WHERE user_id = ? AND role = ?"), userID, role)
	return err
}
