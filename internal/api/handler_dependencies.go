package api

import (
	"github.com/terraincognita07/sprintdesk/internal/db"
	"github.com/terraincognita07/sprintdesk/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	repositories := db.NewRepositories(database)
	handler.repositories = repositories

	access := services.NewAccessResolver(repositories.Projects, repositories.Sprints, repositories.Issues, repositories.Memberships)
	codes := services.NewProjectCodeGenerator(repositories.Projects)
	notifications := services.NewNotificationService(repositories.Notifications, handler.logger)
	memberships := services.NewMembershipService(repositories.Projects, repositories.Memberships, repositories.Users, access, codes, notifications).
		WithLogger(handler.logger)

	handler.access = access
	handler.notificationService = notifications
	handler.membershipService = memberships
	handler.authService = services.NewAuthService(repositories.Users, repositories.Issues, memberships, codes)
	handler.clientService = services.NewClientService(repositories.Clients)
	handler.projectService = services.NewProjectService(repositories.Projects, repositories.Clients, repositories.Users, access, codes)
	handler.sprintService = services.NewSprintService(repositories.Sprints, repositories.Issues, repositories.Users, access, memberships, notifications).
		WithLogger(handler.logger)
	handler.issueService = services.NewIssueService(repositories.Issues, repositories.Users, access, notifications)
	handler.statsService = services.NewStatsService(repositories.Sprints, repositories.Memberships, access)
	handler.exportService = services.NewExportService(repositories.Issues, access)
	return handler
}
