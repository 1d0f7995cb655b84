package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Patch("/profile", handler.AuthRequired, handler.UpdateProfile)
	auth.Patch("/password", handler.AuthRequired, handler.ChangePassword)
	auth.Get("/stats", handler.AuthRequired, handler.UserStats)

	clients := api.Group("/clients", handler.AuthRequired)
	clients.Post("", handler.CreateClient)
	clients.Get("", handler.ListClients)
	clients.Get("/:id", handler.GetClient)
	clients.Patch("/:id", handler.UpdateClient)
	clients.Delete("/:id", handler.DeleteClient)

	projects := api.Group("/projects", handler.AuthRequired)
	projects.Post("", handler.CreateProject)
	projects.Get("", handler.ListProjects)
	projects.Post("/join", handler.JoinProject)
	projects.Get("/:id", handler.GetProject)
	projects.Patch("/:id", handler.UpdateProject)
	projects.Delete("/:id", handler.DeleteProject)
	projects.Get("/:id/sprints", handler.ListProjectSprints)
	projects.Get("/:id/members", handler.ListProjectMembers)
	projects.Delete("/:id/members/:userId", handler.RemoveProjectMember)
	projects.Get("/:id/stats", handler.ProjectStats)
	projects.Post("/:id/regenerate-code", handler.RegenerateProjectCode)
	projects.Patch("/:id/join-lock", handler.SetJoinLock)
	projects.Post("/:id/leave", handler.LeaveProject)

	sprints := api.Group("/sprints", handler.AuthRequired)
	sprints.Post("", handler.CreateSprint)
	sprints.Get("", handler.ListSprints)
	sprints.Get("/:id/export.csv", handler.ExportSprintCSV)
	sprints.Get("/:id", handler.GetSprint)
	sprints.Patch("/:id", handler.UpdateSprint)
	sprints.Delete("/:id", handler.DeleteSprint)

	issues := api.Group("/issues", handler.AuthRequired)
	issues.Post("", handler.CreateIssue)
	issues.Get("", handler.ListIssues)
	issues.Get("/:id", handler.GetIssue)
	issues.Patch("/:id", handler.UpdateIssue)
	issues.Delete("/:id", handler.DeleteIssue)

	notifications := api.Group("/notifications", handler.AuthRequired)
	notifications.Get("", handler.ListNotifications)
	notifications.Get("/unread-count", handler.UnreadNotificationCount)
	notifications.Patch("/read-all", handler.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", handler.MarkNotificationRead)
	notifications.Delete("/:id", handler.DeleteNotification)
}
