package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

const internalErrorMessage = "internal server error"

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceErrorStatus maps a service error kind to its HTTP status. Unknown
// errors map to 500 with a generic message.
func serviceErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrCodeGenerationFailed):
		return fiber.StatusServiceUnavailable, "could not allocate a project code, please retry"
	default:
		return fiber.StatusInternalServerError, internalErrorMessage
	}
}

func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	status, message := serviceErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		handler.reportError(c, err)
	}
	return apiError(c, status, message)
}

func (handler *Handler) reportError(c *fiber.Ctx, err error) {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}
	if requestID := c.GetRespHeader(fiber.HeaderXRequestID); requestID != "" {
		fields["request_id"] = requestID
	}
	if user, ok := currentUser(c); ok {
		fields["user_id"] = user.ID
	}
	handler.logger.WithFields(fields).WithError(err).Error("request failed")

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("method", c.Method())
		scope.SetTag("path", c.Path())
	})
	hub.CaptureException(err)
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(value), nil
}

func parseOptionalUintQuery(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil, errors.New("invalid " + name)
	}
	parsed := uint(value)
	return &parsed, nil
}

func queryFlag(c *fiber.Ctx, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// requestUserID returns the id of the user set by AuthRequired, or 0.
func requestUserID(c *fiber.Ctx) uint {
	user, ok := currentUser(c)
	if !ok || user == nil {
		return 0
	}
	return user.ID
}
