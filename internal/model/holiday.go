package model

import "time"

// Holiday closes every court for one date.
type Holiday struct {
	ID        string    `db:"id" json:"id"`
	Date      string    `db:"holiday_date" json:"date"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
