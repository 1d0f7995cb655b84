package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

const tooManyJoinAttemptsMessage = "too many join attempts, try again later"

func userJoinKey(userID uint) string {
	return "join:user:" + strconv.FormatUint(uint64(userID), 10)
}

func ipJoinKey(c *fiber.Ctx) string {
	return "join:ip:" + requestLimiterKey(c)
}

// joinBlocked reports whether key has used up its failed join attempts. A
// limiter outage is logged and does not block the request.
func (handler *Handler) joinBlocked(c *fiber.Ctx, key string) bool {
	blocked, err := handler.joinLimiter.TooManyRecent(c.UserContext(), key, handler.now(), handler.joinAttemptLimit, handler.joinAttemptWindow)
	if err != nil {
		handler.logger.WithError(err).WithField("limiter_key", key).Warn("join attempt limiter unavailable")
		return false
	}
	return blocked
}

// recordJoinOutcome counts a wrong or locked code as a failed attempt and
// clears the counter after a successful join.
func (handler *Handler) recordJoinOutcome(c *fiber.Ctx, key string, joinErr error) {
	var err error
	switch {
	case joinErr == nil:
		err = handler.joinLimiter.Reset(c.UserContext(), key)
	case errors.Is(joinErr, services.ErrInvalidProjectCode), errors.Is(joinErr, services.ErrJoinLocked):
		err = handler.joinLimiter.AddFailure(c.UserContext(), key, handler.now(), handler.joinAttemptWindow)
	default:
		return
	}
	if err != nil {
		handler.logger.WithError(err).WithField("limiter_key", key).Warn("join attempt limiter unavailable")
	}
}
