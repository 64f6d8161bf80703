package routes

import (
	"etkinlik.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes /api altındaki kaynak rotaları. Geri bildirim gönderimi
// dışındaki her rota kimlik doğrulaması ister.
func registerAPIRoutes(app *fiber.App, h Handlers) {
	apiGroup := app.Group("/api")
	authRequired := middlewares.AuthMiddleware(h.Resolver)
	authOptional := middlewares.OptionalAuthMiddleware(h.Resolver)

	// Token varsa actor eklenir; FEEDBACK_POLICY=participant ise servis onu ister.
	apiGroup.Post("/events/:id/feedback", authOptional, h.Feedback.Submit)

	// Grup seviyesinde Use yerine rota bazında eklenir; bilinmeyen /api yolları 401 değil 404 döner.
	protected := authGroup{router: apiGroup, auth: authRequired}

	protected.Get("/events", h.Event.List)
	protected.Post("/events", h.Event.Create)
	protected.Get("/events/:id", h.Event.Show)
	protected.Put("/events/:id", h.Event.Update)
	protected.Patch("/events/:id", h.Event.Update)
	protected.Delete("/events/:id", h.Event.Delete)

	protected.Get("/events/:id/participants", h.Participant.List)
	protected.Post("/events/:id/participants", h.Participant.Create)
	protected.Post("/events/:id/participants/invite", h.Participant.Invite)
	protected.Put("/participants/:id", h.Participant.Update)
	protected.Patch("/participants/:id", h.Participant.Update)
	protected.Delete("/participants/:id", h.Participant.Delete)

	protected.Get("/events/:id/materials", h.Material.List)
	protected.Post("/events/:id/materials", h.Material.Create)
	protected.Delete("/materials/:id", h.Material.Delete)
	protected.Get("/materials/:id/download", h.Material.Download)

	protected.Get("/events/:id/feedback", h.Feedback.List)
	protected.Post("/events/:id/feedback/request", h.Feedback.Request)
}

type authGroup struct {
	router fiber.Router
	auth   fiber.Handler
}

func (g authGroup) Get(path string, h fiber.Handler)    { g.router.Get(path, g.auth, h) }
func (g authGroup) Post(path string, h fiber.Handler)   { g.router.Post(path, g.auth, h) }
func (g authGroup) Put(path string, h fiber.Handler)    { g.router.Put(path, g.auth, h) }
func (g authGroup) Patch(path string, h fiber.Handler)  { g.router.Patch(path, g.auth, h) }
func (g authGroup) Delete(path string, h fiber.Handler) { g.router.Delete(path, g.auth, h) }
