package api

import (
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
)

type ParticipantHandler struct {
	participantService services.IParticipantService
}

func NewParticipantHandler(participantService services.IParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// List GET /api/events/:id/participants
func (h *ParticipantHandler) List(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	participants, err := h.participantService.List(c.UserContext(), actor(c), eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(participants)
}

// Create POST /api/events/:id/participants
func (h *ParticipantHandler) Create(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var input services.CreateParticipantInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	participant, err := h.participantService.Create(c.UserContext(), actor(c), eventID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(participant)
}

// Invite POST /api/events/:id/participants/invite
func (h *ParticipantHandler) Invite(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var input services.InviteInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	result, err := h.participantService.Invite(c.UserContext(), actor(c), eventID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update PUT /api/participants/:id
func (h *ParticipantHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var input services.UpdateParticipantInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	participant, err := h.participantService.UpdateStatus(c.UserContext(), actor(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(participant)
}

// Delete DELETE /api/participants/:id
func (h *ParticipantHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.participantService.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
