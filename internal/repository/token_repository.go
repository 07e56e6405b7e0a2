package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/court-booking/internal/model"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash' column).
type TokenRepo struct{ db *sqlx.DB }

func NewTokenRepo(db *sqlx.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	t := model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp.UTC(),
		CreatedAt: now(),
	}
	const q = `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked_at, created_at)
	           VALUES (:id, :user_id, :token_hash, :expires_at, :revoked_at, :created_at)`
	_, err := r.db.NamedExecContext(ctx, q, t)
	return err
}

// ValidateRefresh returns the user id if a non-revoked, non-expired token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var t model.RefreshToken
	q := r.db.Rebind(`SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
	                  FROM refresh_tokens WHERE token_hash = ?`)
	if err := r.db.GetContext(ctx, &t, q, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	if t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return "", ErrTokenNotFound
	}
	return t.UserID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL"),
		now(), tokenHash)
	return err
}

// RevokeAllForUser revokes all user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL"),
		now(), userID)
	return err
}
