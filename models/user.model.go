package models

import "gorm.io/gorm"

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application account
type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	IsDeleted bool   `gorm:"default:false"`
}

// IsAdmin reports whether the account carries the admin role. The flag is
// resolved here once; handlers never inspect claims ad hoc.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
