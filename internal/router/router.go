package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillified/skillified-api/internal/config"
	"github.com/skillified/skillified-api/internal/handler"
	"github.com/skillified/skillified-api/internal/middleware"
	"github.com/skillified/skillified-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CatalogHandler     *handler.CatalogHandler
	EnrollmentHandler  *handler.EnrollmentHandler
	ExamHandler        *handler.ExamHandler
	IssuanceHandler    *handler.IssuanceHandler
	CertificateHandler *handler.CertificateHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Ledger writes are rate limited per actor; reads are not.
	writeLimit := middleware.RateLimit("ledger-write", 10, time.Minute)

	if deps.CatalogHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CatalogHandler.Register(courses)

		if deps.ExamHandler != nil {
			deps.ExamHandler.Register(courses)
		}
	}

	if deps.EnrollmentHandler != nil {
		enrollments := api.Group("/enrollments", jwtMiddleware, writeLimit)
		deps.EnrollmentHandler.Register(enrollments)
	}

	if deps.CertificateHandler != nil {
		certificates := api.Group("/certificates", jwtMiddleware)

		if deps.IssuanceHandler != nil {
			deps.IssuanceHandler.Register(certificates.Group("", writeLimit))
		}

		deps.CertificateHandler.Register(certificates)
	}
}
