package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/services"
)

// Refetch bumps the refetch epoch of a namespace. When refetch events are
// enabled the bump is published to every replica.
func (h *Handler) Refetch(c *fiber.Ctx) error {
	var body models.RefetchRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}
	if err := body.Validate(); err != nil {
		return invalidRequest(c, err)
	}

	resp, err := h.refetchService.Refetch(requestContext(c), &body)
	if err != nil {
		return h.serviceFailure(c, err, services.CodePublishFailed)
	}
	return c.JSON(resp)
}
