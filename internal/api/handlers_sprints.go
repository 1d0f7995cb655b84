package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

func (handler *Handler) CreateSprint(c *fiber.Ctx) error {
	var input sprintCreateInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	startDate, err := parseOptionalDate(input.StartDate, "start_date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	endDate, err := parseOptionalDate(input.EndDate, "end_date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	sprint, err := handler.sprintService.Create(c.UserContext(), requestUserID(c), services.CreateSprintInput{
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		Description: input.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      input.Status,
	})
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sprint)
}

func (handler *Handler) ListSprints(c *fiber.Ctx) error {
	projectID, err := parseOptionalUintQuery(c, "projectId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if projectID == nil {
		return apiError(c, fiber.StatusBadRequest, "projectId is required")
	}

	sprints, err := handler.sprintService.ListByProject(requestUserID(c), *projectID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(sprints)
}

func (handler *Handler) GetSprint(c *fiber.Ctx) error {
	sprintID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	sprint, err := handler.sprintService.Get(requestUserID(c), sprintID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(sprint)
}

func (handler *Handler) UpdateSprint(c *fiber.Ctx) error {
	sprintID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input sprintUpdateInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	startDate, err := parseOptionalDate(input.StartDate, "start_date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	endDate, err := parseOptionalDate(input.EndDate, "end_date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	sprint, err := handler.sprintService.Update(requestUserID(c), sprintID, services.SprintPatch{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      input.Status,
	})
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(sprint)
}

func (handler *Handler) DeleteSprint(c *fiber.Ctx) error {
	sprintID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.sprintService.Delete(requestUserID(c), sprintID); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
