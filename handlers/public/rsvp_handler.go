package public

import (
	"errors"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const publicLayout = "layouts/public"

// RSVPHandler davet e-postasındaki onay/ret bağlantılarını karşılar.
type RSVPHandler struct {
	participantService services.IParticipantService
}

func NewRSVPHandler(participantService services.IParticipantService) *RSVPHandler {
	return &RSVPHandler{participantService: participantService}
}

// Respond GET /rsvp/:token/:action (action: confirm | decline)
func (h *RSVPHandler) Respond(c *fiber.Ctx) error {
	var status models.ParticipantStatus
	switch c.Params("action") {
	case "confirm":
		status = models.ParticipantStatusConfirmed
	case "decline":
		status = models.ParticipantStatusDeclined
	default:
		return renderNotFound(c, "This link is not valid.")
	}

	participant, err := h.participantService.RespondToInvitation(c.UserContext(), c.Params("token"), status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRSVPToken), errors.Is(err, services.ErrParticipantNotFound):
			return renderNotFound(c, "This invitation link is invalid or has expired.")
		default:
			configslog.Log.Error("LCV yanıtı kaydedilemedi", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).Render("errors/404", fiber.Map{
				"Title":   "Something went wrong",
				"Message": "Your response could not be saved. Please try again later.",
			}, publicLayout)
		}
	}

	title := "Attendance confirmed"
	if status == models.ParticipantStatusDeclined {
		title = "Response recorded"
	}
	return c.Render("public/rsvp_result", fiber.Map{
		"Title":       title,
		"Status":      string(status),
		"Participant": participant,
		"Event":       participant.Event,
	}, publicLayout)
}

func renderNotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
		"Title":   "Invitation not found",
		"Message": message,
	}, publicLayout)
}
