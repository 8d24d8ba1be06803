package store

import (
	"context"
	"fmt"

	"rental-market/internal/database"
	"rental-market/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, role, is_staff, date_joined`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsStaff,
		&u.DateJoined,
	); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	))
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, db database.DB, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	))
	if err != nil {
		return nil, fmt.Errorf("GetUserByUsername: %w", err)
	}
	return u, nil
}

// CreateUser 寫入前重新計算 is_staff
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	u.SyncStaff()
	row := db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role, is_staff)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, date_joined`,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.IsStaff,
	)
	if err := row.Scan(&u.ID, &u.DateJoined); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", translate(err))
	}
	return u, nil
}

// UpdateUser 寫入前重新計算 is_staff，降級立即生效
func UpdateUser(ctx context.Context, db database.DB, u *model.User) error {
	u.SyncStaff()
	tag, err := db.Exec(ctx,
		`UPDATE users SET username = $1, email = $2, role = $3, is_staff = $4
		 WHERE id = $5`,
		u.Username,
		u.Email,
		u.Role,
		u.IsStaff,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUser: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateUser: %w", ErrNotFound)
	}
	return nil
}
