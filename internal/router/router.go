package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lab-manager-api/internal/config"
	"github.com/noah-isme/lab-manager-api/internal/handler"
	"github.com/noah-isme/lab-manager-api/internal/middleware"
	"github.com/noah-isme/lab-manager-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	LabHandler     *handler.LabHandler
	StudentHandler *handler.StudentHandler
	TeacherHandler *handler.TeacherHandler
	JWTMiddleware  fiber.Handler
	// AuthLimiter overrides the login/register limiter built from cfg.
	AuthLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	v1 := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	v1.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwt := deps.JWTMiddleware
	if jwt == nil {
		jwt = middleware.JWTProtected(cfg.JWTSecret)
	}
	limiter := deps.AuthLimiter
	if limiter == nil {
		limiter = middleware.RateLimit("auth", cfg.AuthRateLimit, time.Minute)
	}

	api := app.Group("/api")

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), limiter, jwt)
	}
	if deps.LabHandler != nil {
		deps.LabHandler.Register(api.Group("/labs"), jwt)
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", jwt))
	}
	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(api.Group("/teachers", jwt))
	}
}
