package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Clients       *ClientRepository
	Projects      *ProjectRepository
	Sprints       *SprintRepository
	Issues        *IssueRepository
	Memberships   *MembershipRepository
	Notifications *NotificationRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Clients:       NewClientRepository(database),
		Projects:      NewProjectRepository(database),
		Sprints:       NewSprintRepository(database),
		Issues:        NewIssueRepository(database),
		Memberships:   NewMembershipRepository(database),
		Notifications: NewNotificationRepository(database),
	}
}
