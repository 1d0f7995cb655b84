package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	joining := strings.TrimSpace(input.ProjectCode) != ""
	limiterKey := ipJoinKey(c)
	if joining && handler.joinBlocked(c, limiterKey) {
		return apiError(c, fiber.StatusTooManyRequests, tooManyJoinAttemptsMessage)
	}

	registration, err := handler.authService.Register(c.UserContext(), services.RegisterInput{
		Name:        input.Name,
		Email:       input.Email,
		Password:    input.Password,
		Role:        input.Role,
		ProjectCode: input.ProjectCode,
	})
	if joining {
		handler.recordJoinOutcome(c, limiterKey, err)
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	token, err := handler.issueSession(c, &registration.User)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"user":    registration.User,
		"project": registration.Project,
		"joined":  registration.Joined,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := handler.authService.Login(input.Email, input.Password)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	token, err := handler.issueSession(c, &user)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, err := handler.authService.FindByID(requestUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(user)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	var input profileInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := handler.authService.UpdateProfile(requestUserID(c), input.Name, input.Email)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	// Claims carry name and email, so the session is reissued.
	token, err := handler.issueSession(c, &user)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	var input changePasswordInput
	if err := parseInput(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.authService.ChangePassword(requestUserID(c), input.CurrentPassword, input.NewPassword); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) UserStats(c *fiber.Ctx) error {
	stats, err := handler.authService.UserStats(requestUserID(c))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(stats)
}
