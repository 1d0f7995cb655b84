package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

func (handler *Handler) CreateIssue(c *fiber.Ctx) error {
	var input issueCreateInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	issue, err := handler.issueService.Create(c.UserContext(), requestUserID(c), services.CreateIssueInput{
		SprintID:    input.SprintID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Priority:    input.Priority,
		Status:      input.Status,
		AssigneeID:  input.AssigneeID,
	})
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(issue)
}

func (handler *Handler) ListIssues(c *fiber.Ctx) error {
	sprintID, err := parseOptionalUintQuery(c, "sprintId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if sprintID == nil {
		return apiError(c, fiber.StatusBadRequest, "sprintId is required")
	}

	issues, err := handler.issueService.List(requestUserID(c), *sprintID, queryFlag(c, "mine"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(issues)
}

func (handler *Handler) GetIssue(c *fiber.Ctx) error {
	issueID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	issue, err := handler.issueService.Get(requestUserID(c), issueID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(issue)
}

func (handler *Handler) UpdateIssue(c *fiber.Ctx) error {
	issueID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input issueUpdateInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	patch := services.IssuePatch{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Priority:    input.Priority,
		Status:      input.Status,
	}
	if input.AssigneeID.Set {
		patch.AssigneeID = input.AssigneeID.Value
		patch.ClearAssignee = input.AssigneeID.Value == nil
	}

	issue, err := handler.issueService.Update(c.UserContext(), requestUserID(c), issueID, patch)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(issue)
}

func (handler *Handler) DeleteIssue(c *fiber.Ctx) error {
	issueID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.issueService.Delete(requestUserID(c), issueID); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
