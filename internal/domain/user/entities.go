package user

import (
	"errors"
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleAccountant = "accountant"
	RoleCashier    = "cashier"
)

var ErrNotFound = errors.New("user not found")

// User is a read model maintained by the auth subsystem; this service only
// looks users up to scope reads and fan out notifications.
type User struct {
	ID        string    `gorm:"primaryKey;size:36;column:id" json:"id"`
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:50;index" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsPrivileged reports whether the role may see every expense request rather
// than only its own.
func IsPrivileged(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleAccountant, RoleCashier:
		return true
	}
	return false
}
