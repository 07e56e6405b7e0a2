package model

import "time"

// Role names stored in user_roles.
const (
	RoleAdmin = "admin"
)

// Profile represents an account as stored in the `profiles` table. A
// profile is created when the account is provisioned and is seeded from
// the signup email and optional full name. Roles live in a separate table
// (see UserRole) and are never embedded here.
//
// Fields:
//  ID           – primary key (UUID), also the JWT subject.
//  Email        – unique, normalized to lower case.
//  FullName     – optional display name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Profile struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     *string   `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserRole grants a role to a user. (user_id, role) is unique.
type UserRole struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token handed to the client is stored.
type RefreshToken struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	CreatedAt time.Time  `db:"created_at"`
}
