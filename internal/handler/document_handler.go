package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/josias65/gestion-api/internal/service"
	"github.com/josias65/gestion-api/internal/utils"
)

// DocumentHandler wires document attachment HTTP routes.
type DocumentHandler struct {
	service service.DocumentService
	logger  zerolog.Logger
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(service service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register attaches document endpoints to the tender router group.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("/:id/documents", h.attach)
	router.Get("/:id/documents/:documentId/download", h.download)
	router.Delete("/:id/documents/:documentId", h.remove)
}

func (h *DocumentHandler) attach(c *fiber.Ctx) error {
	tenderID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form expected")
	}

	files := form.File["documents"]
	documents, err := h.service.Attach(c.Context(), tenderID, files, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "documents uploaded", documents)
}

func (h *DocumentHandler) download(c *fiber.Ctx) error {
	tenderID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	documentID, err := parseUintParam(c, "documentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	document, reader, err := h.service.Download(c.Context(), tenderID, documentID)
	if err != nil {
		return h.handleError(c, err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return h.internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, document.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", document.OriginalName))

	return c.Send(payload)
}

func (h *DocumentHandler) remove(c *fiber.Ctx) error {
	tenderID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	documentID, err := parseUintParam(c, "documentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Remove(c.Context(), tenderID, documentID, userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "document deleted", fiber.Map{"id": documentID})
}

func (h *DocumentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTenderNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "tender not found")
	case errors.Is(err, service.ErrDocumentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "document not found")
	case errors.Is(err, service.ErrNoFilesProvided):
		return utils.SendError(c, fiber.StatusBadRequest, "no files provided")
	case errors.Is(err, service.ErrTooManyFiles):
		return utils.SendError(c, fiber.StatusBadRequest, "too many files in one upload")
	case errors.Is(err, service.ErrDocumentTooLarge):
		return utils.SendError(c, fiber.StatusBadRequest, "file exceeds the maximum allowed size")
	case errors.Is(err, service.ErrDocumentTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, "file type not allowed")
	default:
		return h.internalError(c, err)
	}
}

func (h *DocumentHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
