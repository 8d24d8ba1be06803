package model

import "time"

// Role 使用者角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid 回報是否為已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// IsStaff 由角色推導後台權限，僅 admin 為 true
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	}
	return false
}

type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	IsStaff      bool      `db:"is_staff" json:"-"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
}

// SetRole 變更角色並同步 IsStaff
func (u *User) SetRole(r Role) {
	u.Role = r
	u.SyncStaff()
}

// SyncStaff 依 Role 重新計算 IsStaff，所有寫入路徑都必須先呼叫
func (u *User) SyncStaff() {
	u.IsStaff = u.Role.IsStaff()
}
