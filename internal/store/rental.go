package store

import (
	"context"
	"fmt"
	"time"

	"rental-market/internal/database"
	"rental-market/internal/model"

	"github.com/jackc/pgx/v5"
)

const rentalColumns = `id, user_id, product_id, status, start_date`

func scanRental(row pgx.Row, r *model.Rental) error {
	return row.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Status, &r.StartDate)
}

// ListRentalsByUser 僅回傳該使用者的租借，新到舊
func ListRentalsByUser(ctx context.Context, db database.DB, userID int) ([]model.Rental, error) {
	rows, err := db.Query(ctx,
		`SELECT `+rentalColumns+` FROM rentals
		 WHERE user_id = $1
		 ORDER BY start_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListRentalsByUser: %w", err)
	}
	defer rows.Close()

	out := []model.Rental{}
	for rows.Next() {
		var r model.Rental
		if err := scanRental(rows, &r); err != nil {
			return nil, fmt.Errorf("ListRentalsByUser: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRentalsByUser: %w", err)
	}
	return out, nil
}

// GetRentalForUser 他人的租借視同不存在
func GetRentalForUser(ctx context.Context, db database.DB, id, userID int) (*model.Rental, error) {
	r := &model.Rental{}
	row := db.QueryRow(ctx,
		`SELECT `+rentalColumns+` FROM rentals WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err := scanRental(row, r); err != nil {
		return nil, fmt.Errorf("GetRentalForUser: %w", translate(err))
	}
	return r, nil
}

func GetRentalByID(ctx context.Context, db database.DB, id int) (*model.Rental, error) {
	r := &model.Rental{}
	row := db.QueryRow(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id)
	if err := scanRental(row, r); err != nil {
		return nil, fmt.Errorf("GetRentalByID: %w", translate(err))
	}
	return r, nil
}

// CreateRental 狀態與開始時間由資料庫預設值決定
func CreateRental(ctx context.Context, db database.DB, r *model.Rental) error {
	row := db.QueryRow(ctx,
		`INSERT INTO rentals (user_id, product_id)
		 VALUES ($1, $2)
		 RETURNING id, status, start_date`,
		r.UserID,
		r.ProductID,
	)
	if err := row.Scan(&r.ID, &r.Status, &r.StartDate); err != nil {
		return fmt.Errorf("CreateRental: %w", translate(err))
	}
	return nil
}

// UpdateRentalStatus 僅在目前狀態仍為 r.Status 時更新，否則回傳 ErrConflict
func UpdateRentalStatus(ctx context.Context, db database.DB, r *model.Rental, next model.RentalStatus) error {
	tag, err := db.Exec(ctx,
		`UPDATE rentals SET status = $1 WHERE id = $2 AND status = $3`,
		next,
		r.ID,
		r.Status,
	)
	if err != nil {
		return fmt.Errorf("UpdateRentalStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateRentalStatus: %w", ErrConflict)
	}
	r.Status = next
	return nil
}

// CountRentalsByDay 統計 [from, to) 區間內每日（UTC）的租借數
func CountRentalsByDay(ctx context.Context, db database.DB, from, to time.Time) ([]model.DailyCount, error) {
	rows, err := db.Query(ctx,
		`SELECT (start_date AT TIME ZONE 'UTC')::date AS day, count(id)
		 FROM rentals
		 WHERE start_date >= $1 AND start_date < $2
		 GROUP BY day
		 ORDER BY day`,
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("CountRentalsByDay: %w", err)
	}
	defer rows.Close()

	out := []model.DailyCount{}
	for rows.Next() {
		var d model.DailyCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, fmt.Errorf("CountRentalsByDay: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CountRentalsByDay: %w", err)
	}
	return out, nil
}
