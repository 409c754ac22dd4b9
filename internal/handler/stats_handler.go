package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/josias65/gestion-api/internal/repository"
	"github.com/josias65/gestion-api/internal/service"
	"github.com/josias65/gestion-api/internal/utils"
)

// StatsHandler wires statistics and export HTTP routes.
type StatsHandler struct {
	stats  service.StatsService
	export service.ExportService
	logger zerolog.Logger
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(stats service.StatsService, export service.ExportService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		export: export,
		logger: logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register attaches statistics endpoints to the tender router group. These
// paths must be registered before the /:id routes so the literal segments
// win.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/stats/detailed", h.detailed)
	router.Get("/export/:format", h.exportTenders)
}

func (h *StatsHandler) detailed(c *fiber.Ctx) error {
	window, err := parseStatsWindow(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date format")
	}

	stats, err := h.stats.Detailed(c.Context(), window)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "statistics retrieved", stats)
}

func (h *StatsHandler) exportTenders(c *fiber.Ctx) error {
	window, err := parseStatsWindow(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date format")
	}

	export, err := h.export.Export(c.Context(), c.Params("format"), window)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedExportFormat) {
			return utils.SendError(c, fiber.StatusBadRequest, "unsupported export format")
		}
		return h.internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename))

	return c.Send(export.Data)
}

func parseStatsWindow(c *fiber.Ctx) (repository.StatsWindow, error) {
	window := repository.StatsWindow{}

	if from := strings.TrimSpace(c.Query("dateFrom")); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return repository.StatsWindow{}, err
		}
		window.From = &parsed
	}
	if to := strings.TrimSpace(c.Query("dateTo")); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return repository.StatsWindow{}, err
		}
		window.To = &parsed
	}

	return window, nil
}

func (h *StatsHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
