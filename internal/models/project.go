package models

import "time"

const ProjectCodeLength = 8

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	ProjectCode string    `gorm:"size:8;uniqueIndex;not null" json:"project_code"`
	JoinLocked  bool      `gorm:"not null;default:false" json:"join_locked"`
	ClientID    uint      `gorm:"not null;index" json:"client_id"`
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Client  *Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Creator *User    `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Sprints []Sprint `gorm:"foreignKey:ProjectID" json:"sprints,omitempty"`
}
