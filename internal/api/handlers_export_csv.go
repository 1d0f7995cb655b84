package api

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

func (handler *Handler) ExportSprintCSV(c *fiber.Ctx) error {
	sprintID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	export, err := handler.exportService.BuildSprintCSVRows(requestUserID(c), sprintID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return handler.respondServiceError(c, fmt.Errorf("write export header: %w", err))
	}
	if err := writer.WriteAll(export.Rows); err != nil {
		return handler.respondServiceError(c, fmt.Errorf("write export rows: %w", err))
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("sprint-%d.csv", export.Sprint.ID)))
	return c.Send(output.Bytes())
}
