package models

import "time"

const (
	SprintStatusPlanned   = "planned"
	SprintStatusActive    = "active"
	SprintStatusCompleted = "completed"
	SprintStatusArchived  = "archived"

	DefaultSprintName = "Sprint 1"
)

type Sprint struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null;default:'Sprint 1'" json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"`
	Status      string     `gorm:"not null;default:planned" json:"status"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	CreatedByID uint       `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator *User    `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Issues  []Issue  `gorm:"foreignKey:SprintID" json:"issues,omitempty"`
}

func IsValidSprintStatus(status string) bool {
	switch status {
	case SprintStatusPlanned, SprintStatusActive, SprintStatusCompleted, SprintStatusArchived:
		return true
	default:
		return false
	}
}
