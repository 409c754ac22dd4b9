package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/service"
	"github.com/josias65/gestion-api/internal/utils"
)

// TenderHandler wires tender HTTP routes.
type TenderHandler struct {
	service service.TenderService
	logger  zerolog.Logger
}

// NewTenderHandler constructs the handler.
func NewTenderHandler(service service.TenderService, logger zerolog.Logger) *TenderHandler {
	return &TenderHandler{
		service: service,
		logger:  logger.With().Str("component", "tender_handler").Logger(),
	}
}

// Register attaches tender endpoints to the router group.
func (h *TenderHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Post("/:id/comments", h.addComment)
}

func (h *TenderHandler) list(c *fiber.Ctx) error {
	var req dto.TenderListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	listing, err := h.service.List(c.Context(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tenders retrieved", listing)
}

func (h *TenderHandler) create(c *fiber.Ctx) error {
	var payload dto.TenderCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	tender, err := h.service.Create(c.Context(), payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tender created", tender)
}

func (h *TenderHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	tender, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tender retrieved", tender)
}

func (h *TenderHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TenderUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	tender, err := h.service.Update(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tender updated", tender)
}

func (h *TenderHandler) addComment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.AddComment(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}

func (h *TenderHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTenderNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "tender not found")
	case errors.Is(err, service.ErrNoUpdateFields):
		return utils.SendError(c, fiber.StatusBadRequest, "no data to update")
	case errors.Is(err, service.ErrInvalidDeadline):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date format")
	case errors.Is(err, service.ErrEmptyComment):
		return utils.SendError(c, fiber.StatusBadRequest, "comment content is required")
	case errors.As(err, &validationErrors):
		return sendValidationErrors(c, validationErrors)
	default:
		return h.internalError(c, err)
	}
}

func (h *TenderHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
