package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/middleware"
	"github.com/skillified/skillified-api/internal/service"
	"github.com/skillified/skillified-api/internal/utils"
)

// IssuanceHandler manages the completion/certificate issuance endpoint.
type IssuanceHandler struct {
	service   service.IssuanceService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewIssuanceHandler builds an issuance handler instance.
func NewIssuanceHandler(service service.IssuanceService, validator *validator.Validate, logger zerolog.Logger) *IssuanceHandler {
	return &IssuanceHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "issuance_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *IssuanceHandler) Register(router fiber.Router) {
	router.Post("/issue", h.issue)
}

func (h *IssuanceHandler) issue(c *fiber.Ctx) error {
	var payload dto.IssuanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	receipt, err := h.service.Issue(c.Context(), payload, middleware.ActorAddress(c))
	if err != nil {
		return handleWorkflowError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "completion marked and certificate issued", receipt)
}
