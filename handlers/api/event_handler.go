package api

import (
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
)

type EventHandler struct {
	eventService services.IEventService
}

func NewEventHandler(eventService services.IEventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List GET /api/events
func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.eventService.List(c.UserContext(), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// Create POST /api/events
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var input services.CreateEventInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	event, err := h.eventService.Create(c.UserContext(), actor(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// Show GET /api/events/:id
func (h *EventHandler) Show(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	event, err := h.eventService.Get(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

// Update PUT/PATCH /api/events/:id
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var input services.UpdateEventInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	event, err := h.eventService.Update(c.UserContext(), actor(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

// Delete DELETE /api/events/:id
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.eventService.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
