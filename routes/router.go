package routes

import (
	"etkinlik.link/handlers/api"
	"etkinlik.link/handlers/public"
	"etkinlik.link/middlewares"
	"etkinlik.link/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers rotaların ihtiyaç duyduğu handler ve middleware bağımlılıkları.
type Handlers struct {
	Auth        *api.AuthHandler
	Event       *api.EventHandler
	Participant *api.ParticipantHandler
	Material    *api.MaterialHandler
	Feedback    *api.FeedbackHandler
	RSVP        *public.RSVPHandler

	Resolver     middlewares.ActorResolver
	AccessLogger bool
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Use(recoverMiddleware.New())
	if h.AccessLogger {
		app.Use(logger.New())
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	registerAuthRoutes(app, h)
	registerAPIRoutes(app, h)
	registerRSVPRoutes(app, h)

	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found."})
}
