package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/middleware"
	"github.com/skillified/skillified-api/internal/service"
	"github.com/skillified/skillified-api/internal/utils"
)

func sessionFromContext(c *fiber.Ctx) service.Session {
	return service.Session{
		ID:    middleware.SessionID(c),
		Actor: middleware.ActorAddress(c),
	}
}

func parseUint64Param(c *fiber.Ctx, key string) (uint64, error) {
	raw := strings.TrimSpace(c.Params(key))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return value, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// handleWorkflowError maps the service failure taxonomy onto HTTP status
// codes. Pinning and ledger-write failures are reported as retryable: the
// saga guarantees a fresh re-invocation is always safe.
func handleWorkflowError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrMissingAnswer):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "not authorized for this action")
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrUnknownExam):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusNotFound, "student not enrolled in course")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendError(c, fiber.StatusConflict, "already enrolled in course")
	case errors.Is(err, service.ErrAlreadyCompleted):
		return utils.SendError(c, fiber.StatusConflict, "course already completed")
	case errors.Is(err, service.ErrDuplicateTitle):
		return utils.SendError(c, fiber.StatusConflict, "a course with this title already exists")
	case errors.Is(err, service.ErrExamAlreadyPassed):
		return utils.SendError(c, fiber.StatusConflict, "exam already passed")
	case errors.Is(err, service.ErrInsufficientFunds):
		return utils.SendError(c, fiber.StatusPaymentRequired, "insufficient funds for course fee")
	case errors.Is(err, service.ErrExamNotPassed):
		return utils.SendError(c, fiber.StatusPreconditionFailed, "exam not passed")
	case errors.Is(err, service.ErrPinningFailed):
		return utils.SendRetryableError(c, fiber.StatusBadGateway, "content pinning failed, please retry")
	case errors.Is(err, service.ErrLedgerWriteFailed):
		return utils.SendRetryableError(c, fiber.StatusBadGateway, "ledger write failed, please retry")
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
