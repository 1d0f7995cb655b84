package models

import "time"

const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleTester    = "tester"
)

// User roles are advisory; authorization never reads them.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:developer" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDeveloper, RoleTester:
		return true
	default:
		return false
	}
}

// UserBrief is the public projection embedded in other payloads.
type UserBrief struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (user User) Brief() UserBrief {
	return UserBrief{ID: user.ID, Name: user.Name, Email: user.Email}
}
