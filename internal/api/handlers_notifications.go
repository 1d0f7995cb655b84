package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListNotifications(c *fiber.Ctx) error {
	page, err := handler.notificationService.List(requestUserID(c), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(page)
}

func (handler *Handler) UnreadNotificationCount(c *fiber.Ctx) error {
	unread, err := handler.notificationService.UnreadCount(requestUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": unread})
}

func (handler *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	notification, err := handler.notificationService.MarkRead(requestUserID(c), notificationID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(notification)
}

func (handler *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	updated, err := handler.notificationService.MarkAllRead(requestUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

func (handler *Handler) DeleteNotification(c *fiber.Ctx) error {
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.notificationService.Delete(requestUserID(c), notificationID); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
