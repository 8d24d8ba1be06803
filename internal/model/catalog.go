package model

import "time"

type Category struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

type Product struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CategoryID  int       `db:"category_id" json:"category"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	DateAdded   time.Time `db:"date_added" json:"date_added"`
	OwnerID     int       `db:"owner_id" json:"owner"`
}
