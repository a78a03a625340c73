package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/card-directory/internal/observability"
)

// NewApp builds the fiber app with the global middleware chain and routes.
func NewApp(logger *zap.Logger, metrics *observability.Metrics, mw MiddlewareConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "card-directory",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	RegisterMiddlewares(app, logger, metrics, mw)
	RegisterRoutes(app, routes)
	return app
}
