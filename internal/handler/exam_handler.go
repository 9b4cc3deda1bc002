package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/service"
	"github.com/skillified/skillified-api/internal/utils"
)

// ExamHandler manages exam attempt endpoints.
type ExamHandler struct {
	service   service.ExamService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewExamHandler builds an exam handler instance.
func NewExamHandler(service service.ExamService, validator *validator.Validate, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ExamHandler) Register(router fiber.Router) {
	router.Post("/:courseId/exam/start", h.start)
	router.Post("/:courseId/exam/submit", h.submit)
}

func (h *ExamHandler) start(c *fiber.Ctx) error {
	courseID, err := parseUint64Param(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Start(c.Context(), sessionFromContext(c), courseID)
	if err != nil {
		return handleWorkflowError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "exam started", response)
}

func (h *ExamHandler) submit(c *fiber.Ctx) error {
	courseID, err := parseUint64Param(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ExamSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	verdict, err := h.service.Submit(c.Context(), sessionFromContext(c), courseID, payload)
	if err != nil {
		return handleWorkflowError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "exam graded", verdict)
}
