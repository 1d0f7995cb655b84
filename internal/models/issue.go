package models

import "time"

const (
	IssueTypeBug     = "bug"
	IssueTypeFeature = "feature"
	IssueTypeTask    = "task"

	IssuePriorityLow      = "low"
	IssuePriorityMedium   = "medium"
	IssuePriorityHigh     = "high"
	IssuePriorityCritical = "critical"

	IssueStatusTodo       = "todo"
	IssueStatusInProgress = "inprogress"
	IssueStatusInReview   = "inreview"
	IssueStatusDone       = "done"

	MaxIssueTitleLength = 200
)

type Issue struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Type        string    `gorm:"not null;default:task" json:"type"`
	Priority    string    `gorm:"not null;default:low" json:"priority"`
	Status      string    `gorm:"not null;default:todo;index" json:"status"`
	AssigneeID  *uint     `gorm:"index" json:"assignee_id"`
	CreatedByID uint      `gorm:"not null;index" json:"created_by_id"`
	SprintID    uint      `gorm:"not null;index" json:"sprint_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Sprint   *Sprint `gorm:"foreignKey:SprintID" json:"sprint,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  *User   `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
}

func IsValidIssueType(value string) bool {
	switch value {
	case IssueTypeBug, IssueTypeFeature, IssueTypeTask:
		return true
	default:
		return false
	}
}

func IsValidIssuePriority(value string) bool {
	switch value {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityCritical:
		return true
	default:
		return false
	}
}

func IsValidIssueStatus(value string) bool {
	switch value {
	case IssueStatusTodo, IssueStatusInProgress, IssueStatusInReview, IssueStatusDone:
		return true
	default:
		return false
	}
}

// IssueStatusLabel returns the board column title for a status.
func IssueStatusLabel(status string) string {
	switch status {
	case IssueStatusTodo:
		return "To Do"
	case IssueStatusInProgress:
		return "In Progress"
	case IssueStatusInReview:
		return "In Review"
	case IssueStatusDone:
		return "Done"
	default:
		return status
	}
}
