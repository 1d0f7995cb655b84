package models

import "time"

const (
	NotificationIssueAssigned       = "issue_assigned"
	NotificationIssueStatusChanged  = "issue_status_changed"
	NotificationProjectMemberJoined = "project_member_joined"
	NotificationIssueCreated        = "issue_created"
	NotificationSprintCreated       = "sprint_created"
	NotificationOther               = "other"
)

type Notification struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Type             string    `gorm:"not null;default:other" json:"type"`
	Message          string    `gorm:"not null" json:"message"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	IsRead           bool      `gorm:"not null;default:false;index" json:"is_read"`
	RelatedProjectID *uint     `json:"related_project_id"`
	RelatedIssueID   *uint     `json:"related_issue_id"`
	RelatedUserID    *uint     `json:"related_user_id"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`

	RelatedUser    *User    `gorm:"foreignKey:RelatedUserID" json:"related_user,omitempty"`
	RelatedProject *Project `gorm:"foreignKey:RelatedProjectID" json:"related_project,omitempty"`
	RelatedIssue   *Issue   `gorm:"foreignKey:RelatedIssueID" json:"related_issue,omitempty"`
}

func IsValidNotificationType(value string) bool {
	switch value {
	case NotificationIssueAssigned,
		NotificationIssueStatusChanged,
		NotificationProjectMemberJoined,
		NotificationIssueCreated,
		NotificationSprintCreated,
		NotificationOther:
		return true
	default:
		return false
	}
}
