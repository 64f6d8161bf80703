package api

import (
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler kayıt ve giriş uç noktaları.
type AuthHandler struct {
	authService services.IAuthService
}

func NewAuthHandler(authService services.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	result, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	result, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a := actor(c)
	return c.JSON(fiber.Map{"id": a.UserID, "email": a.Email})
}
