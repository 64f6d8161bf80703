package routes

import (
	"etkinlik.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAuthRoutes /api/auth rotaları
func registerAuthRoutes(app *fiber.App, h Handlers) {
	auth := app.Group("/api/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", middlewares.AuthMiddleware(h.Resolver), h.Auth.Me)
}
