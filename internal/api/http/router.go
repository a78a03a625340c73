package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/card-directory/internal/api/http/handlers"
	"github.com/spec-kit/card-directory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Cards          *handlers.CardsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	cards := app.Group("/cards", cfg.AuthMiddleware.Handle)
	cards.Get("/", cfg.Cards.List)
	cards.Get("/my-cards", auth.RequireToken(), cfg.Cards.ListMine)
	cards.Get("/:id", cfg.Cards.Get)
	cards.Post("/", auth.Require(auth.CanCreateCard), cfg.Cards.Create)
	cards.Put("/:id", auth.RequireToken(), cfg.Cards.Update)
	cards.Patch("/:id", auth.RequireToken(), cfg.Cards.ToggleLike)
	cards.Delete("/:id", auth.RequireToken(), cfg.Cards.Delete)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Post("/", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Get("/", auth.Require(auth.CanListUsers), cfg.Users.List)
	users.Get("/:id", auth.Require(auth.CanViewUser), cfg.Users.Get)
	users.Put("/:id", auth.RequireToken(), cfg.Users.Update)
	users.Patch("/:id", auth.RequireToken(), cfg.Users.SetBusiness)
	users.Delete("/:id", auth.Require(auth.CanDeleteUser), cfg.Users.Delete)
}
