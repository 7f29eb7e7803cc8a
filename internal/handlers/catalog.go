package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/services"
)

// Operators handles GET /v1/operators/:type
func (h *Handler) Operators(c *fiber.Ctx) error {
	resp, err := h.catalogService.Operators(c.Params("type"))
	if err != nil {
		return h.serviceFailure(c, err, services.CodeInvalidColumnType)
	}
	return c.JSON(resp)
}

// Aggregations handles GET /v1/aggregations/:type?requested=
func (h *Handler) Aggregations(c *fiber.Ctx) error {
	resp, err := h.catalogService.Aggregations(c.Params("type"), c.Query("requested"))
	if err != nil {
		return h.serviceFailure(c, err, services.CodeInvalidColumnType)
	}
	return c.JSON(resp)
}

// Presets handles GET /v1/presets
func (h *Handler) Presets(c *fiber.Ctx) error {
	return c.JSON(h.catalogService.Presets())
}
