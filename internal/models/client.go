package models

import "time"

type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner    *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
}
