package routes

import "github.com/gofiber/fiber/v2"

// registerRSVPRoutes davet e-postasındaki public onay/ret bağlantıları.
func registerRSVPRoutes(app *fiber.App, h Handlers) {
	app.Get("/rsvp/:token/:action", h.RSVP.Respond)
}
