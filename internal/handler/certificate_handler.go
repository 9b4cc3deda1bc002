package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/middleware"
	"github.com/skillified/skillified-api/internal/service"
	"github.com/skillified/skillified-api/internal/utils"
)

// CertificateHandler manages certificate listing, export and audit endpoints.
type CertificateHandler struct {
	service service.CertificateService
	logger  zerolog.Logger
}

// NewCertificateHandler builds a certificate handler instance.
func NewCertificateHandler(service service.CertificateService, logger zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		service: service,
		logger:  logger.With().Str("component", "certificate_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CertificateHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/receipts", h.receipts)
	router.Get("/:tokenId/export", h.export)
}

func (h *CertificateHandler) list(c *fiber.Ctx) error {
	certificates, err := h.service.ListOwned(c.Context(), middleware.ActorAddress(c))
	if err != nil {
		return handleWorkflowError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "certificates retrieved", certificates)
}

func (h *CertificateHandler) receipts(c *fiber.Ctx) error {
	receipts, err := h.service.ListReceipts(c.Context(), middleware.ActorAddress(c))
	if err != nil {
		return handleWorkflowError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "receipts retrieved", receipts)
}

func (h *CertificateHandler) export(c *fiber.Ctx) error {
	tokenID, err := parseUint64Param(c, "tokenId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentName := strings.TrimSpace(c.Query("student_name"))

	document, filename, err := h.service.Export(c.Context(), tokenID, middleware.ActorAddress(c), studentName)
	if err != nil {
		return handleWorkflowError(c, *requestLogger(h.logger, c), err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.Send(document)
}
