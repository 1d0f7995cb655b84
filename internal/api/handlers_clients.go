package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) CreateClient(c *fiber.Ctx) error {
	var input clientInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	client, err := handler.clientService.Create(requestUserID(c), input.Name)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (handler *Handler) ListClients(c *fiber.Ctx) error {
	clients, err := handler.clientService.List(requestUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(clients)
}

func (handler *Handler) GetClient(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	client, err := handler.clientService.Get(requestUserID(c), clientID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(client)
}

func (handler *Handler) UpdateClient(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var input clientInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	client, err := handler.clientService.Rename(requestUserID(c), clientID, input.Name)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(client)
}

func (handler *Handler) DeleteClient(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.clientService.Delete(requestUserID(c), clientID); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
