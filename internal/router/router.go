package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/josias65/gestion-api/internal/config"
	"github.com/josias65/gestion-api/internal/handler"
	"github.com/josias65/gestion-api/internal/middleware"
	"github.com/josias65/gestion-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TenderHandler     *handler.TenderHandler
	SubmissionHandler *handler.SubmissionHandler
	DocumentHandler   *handler.DocumentHandler
	StatsHandler      *handler.StatsHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.JWTMiddleware == nil {
		panic("router: JWT middleware is required for the tender surface")
	}

	tenders := api.Group("/tenders", deps.JWTMiddleware)

	// Literal segments first so /stats and /export never match /:id.
	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(tenders)
	}
	if deps.TenderHandler != nil {
		deps.TenderHandler.Register(tenders)
	}
	if deps.SubmissionHandler != nil {
		tenders.Use("/:id/submissions", middleware.RateLimit("submissions", cfg.SubmitRateLimit, cfg.SubmitRateWindow))
		tenders.Use("/:id/submissions/:submissionId/evaluate", middleware.RequireRole("admin", "evaluator"))
		deps.SubmissionHandler.Register(tenders)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.Register(tenders)
	}
}
