package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/services"
)

// FilterTree handles POST /v1/filters/tree
func (h *Handler) FilterTree(c *fiber.Ctx) error {
	var body models.FilterTreeRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.filterService.Tree(&body)
	if err != nil {
		return h.serviceFailure(c, err, services.CodeInvalidFilter)
	}
	return c.JSON(resp)
}

// WireFilter handles POST /v1/filters/wire
func (h *Handler) WireFilter(c *fiber.Ctx) error {
	var body models.WireFilterRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}
	if err := body.Validate(); err != nil {
		return invalidRequest(c, err)
	}

	return c.JSON(h.filterService.Wire(&body))
}

// ValidateFilter handles POST /v1/filters/validate
func (h *Handler) ValidateFilter(c *fiber.Ctx) error {
	var body models.ValidateFilterRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}
	if err := body.Validate(); err != nil {
		return invalidRequest(c, err)
	}

	resp, err := h.filterService.Validate(&body)
	if err != nil {
		return h.serviceFailure(c, err, services.CodeInvalidFilter)
	}
	return c.JSON(resp)
}

// Format handles POST /v1/format
func (h *Handler) Format(c *fiber.Ctx) error {
	var body models.FormatRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}
	if err := body.Validate(); err != nil {
		return invalidRequest(c, err)
	}

	return c.JSON(h.filterService.Format(&body))
}
