package api

import (
	"errors"
	"strconv"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/middlewares"
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError servis hatalarını HTTP yanıtına çevirir.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		body := fiber.Map{"message": verr.Message}
		if len(verr.Fields) > 0 {
			body["errors"] = verr.Fields
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
	case errors.Is(err, services.ErrBlobMissing):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "File not found"})
	case services.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found."})
	}
	configslog.Log.Error("API isteği başarısız",
		zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server Error"})
}

// invalidBody bozuk JSON/form gövdesi için 422 döner.
func invalidBody(c *fiber.Ctx, err error) error {
	configslog.Log.Debug("İstek gövdesi ayrıştırılamadı", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "The request body is invalid."})
}

// paramID yol parametresini ID'ye çevirir; geçersiz ID bilinmeyen kaynak gibi 404 döner.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found."})
}

func actor(c *fiber.Ctx) services.Actor {
	return middlewares.CurrentActor(c)
}
