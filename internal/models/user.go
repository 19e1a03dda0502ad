package models

import "time"

// Role is the coarse access tier of a user.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// User represents a registered player.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Fullname     string    `json:"fullname"`
	EmailAddress string    `gorm:"uniqueIndex;not null" json:"emailAddress"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null;default:'User'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user may run administrative operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
