package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/dto"
	"github.com/skillified/skillified-api/internal/middleware"
	"github.com/skillified/skillified-api/internal/service"
	"github.com/skillified/skillified-api/internal/utils"
)

// CatalogHandler manages course catalog endpoints.
type CatalogHandler struct {
	service   service.CatalogService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCatalogHandler builds a catalog handler instance.
func NewCatalogHandler(service service.CatalogService, validator *validator.Validate, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/find", h.findByTitle)
	router.Post("", h.create)
}

func (h *CatalogHandler) list(c *fiber.Ctx) error {
	courses, err := h.service.List(c.Context())
	if err != nil {
		return handleWorkflowError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CatalogHandler) findByTitle(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "title query parameter is required")
	}

	course, err := h.service.FindByTitle(c.Context(), title)
	if err != nil {
		return handleWorkflowError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course found", course)
}

func (h *CatalogHandler) create(c *fiber.Ctx) error {
	payload := dto.CourseCreateRequest{
		Title:             strings.TrimSpace(c.FormValue("title")),
		InstructorAddress: strings.TrimSpace(c.FormValue("instructor_address")),
		ExamID:            strings.TrimSpace(c.FormValue("exam_id")),
		Fee:               strings.TrimSpace(c.FormValue("fee")),
	}

	material, err := c.FormFile("material")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "course material file is required")
	}
	certificateImage, err := c.FormFile("certificate_image")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "certificate image file is required")
	}

	receipt, err := h.service.Create(c.Context(), payload, material, certificateImage, middleware.ActorAddress(c))
	if err != nil {
		return handleWorkflowError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", receipt)
}
