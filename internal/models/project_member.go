package models

import "time"

const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)

type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:uidx_project_user" json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_project_user;index" json:"user_id"`
	Role      string    `gorm:"not null;default:member" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
