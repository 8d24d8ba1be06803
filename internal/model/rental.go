package model

import "time"

type RentalStatus string

const (
	RentalPending  RentalStatus = "pending"
	RentalApproved RentalStatus = "approved"
	RentalReturned RentalStatus = "returned"
)

// Valid 回報是否為已知狀態
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalPending, RentalApproved, RentalReturned:
		return true
	}
	return false
}

// CanTransitionTo 僅允許 pending→approved→returned
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	switch s {
	case RentalPending:
		return next == RentalApproved
	case RentalApproved:
		return next == RentalReturned
	case RentalReturned:
		return false
	}
	return false
}

type Rental struct {
	ID        int          `db:"id" json:"id"`
	UserID    int          `db:"user_id" json:"user"`
	ProductID int          `db:"product_id" json:"product"`
	Status    RentalStatus `db:"status" json:"status"`
	StartDate time.Time    `db:"start_date" json:"start_date"`
}

// DailyCount 單日租借數
type DailyCount struct {
	Day   time.Time `db:"day" json:"day"`
	Count int       `db:"count" json:"count"`
}
