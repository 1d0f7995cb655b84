package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

func (handler *Handler) CreateProject(c *fiber.Ctx) error {
	var input projectInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := handler.projectService.Create(requestUserID(c), services.CreateProjectInput{
		Name:        input.Name,
		Description: input.Description,
		ClientID:    input.ClientID,
	})
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (handler *Handler) ListProjects(c *fiber.Ctx) error {
	clientID, err := parseOptionalUintQuery(c, "clientId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	projects, err := handler.projectService.List(requestUserID(c), clientID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(projects)
}

func (handler *Handler) GetProject(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := handler.projectService.Get(requestUserID(c), projectID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(project)
}

func (handler *Handler) UpdateProject(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input projectUpdateInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := handler.projectService.Update(requestUserID(c), projectID, input.Name, input.Description)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(project)
}

func (handler *Handler) DeleteProject(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.projectService.Delete(requestUserID(c), projectID); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) JoinProject(c *fiber.Ctx) error {
	var input joinProjectInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := requestUserID(c)
	limiterKey := userJoinKey(userID)
	if handler.joinBlocked(c, limiterKey) {
		return apiError(c, fiber.StatusTooManyRequests, tooManyJoinAttemptsMessage)
	}

	result, err := handler.membershipService.JoinProject(c.UserContext(), userID, input.ProjectCode)
	handler.recordJoinOutcome(c, limiterKey, err)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}

func (handler *Handler) LeaveProject(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.membershipService.LeaveProject(requestUserID(c), projectID); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) SetJoinLock(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input joinLockInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := handler.membershipService.SetJoinLock(requestUserID(c), projectID, *input.Locked)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(project)
}

func (handler *Handler) RegenerateProjectCode(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := handler.membershipService.RegenerateProjectCode(requestUserID(c), projectID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(project)
}

func (handler *Handler) ListProjectMembers(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	members, err := handler.membershipService.ListMembers(requestUserID(c), projectID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(members)
}

func (handler *Handler) RemoveProjectMember(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	memberID, err := parseIDParam(c, "userId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.membershipService.RemoveMember(requestUserID(c), projectID, memberID); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ListProjectSprints(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	sprints, err := handler.sprintService.ListByProject(requestUserID(c), projectID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(sprints)
}

func (handler *Handler) ProjectStats(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := handler.statsService.ProjectStats(requestUserID(c), projectID, handler.now())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(stats)
}
