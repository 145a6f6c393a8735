package server

import (
	"brokerage/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitContact godoc
// @Summary Send a message to the brokerage
// @Tags public
// @Accept json
// @Produce json
// @Param message body service.CreateContactInput true "Message"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /contact [post]
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var in service.CreateContactInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	if _, err := s.contactService.Submit(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// Subscribe handles POST /api/newsletter/subscribe. Subscribing twice is not an error.
func (s *Server) Subscribe(c *fiber.Ctx) error {
	var in service.SubscribeInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	created, err := s.newsletterService.Subscribe(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"success": true, "subscribed": created})
}
