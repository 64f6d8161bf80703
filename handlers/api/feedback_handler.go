package api

import (
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
)

type FeedbackHandler struct {
	feedbackService services.IFeedbackService
}

func NewFeedbackHandler(feedbackService services.IFeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// List GET /api/events/:id/feedback
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	feedback, err := h.feedbackService.List(c.UserContext(), actor(c), eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feedback)
}

// Submit POST /api/events/:id/feedback
// Yeni kayıt 201, mevcut kaydın güncellenmesi 200 döner.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var input services.SubmitFeedbackInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}
	feedback, created, err := h.feedbackService.Submit(c.UserContext(), actor(c), eventID, input)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(feedback)
}

// Request POST /api/events/:id/feedback/request
func (h *FeedbackHandler) Request(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	result, err := h.feedbackService.RequestFeedback(c.UserContext(), actor(c), eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
