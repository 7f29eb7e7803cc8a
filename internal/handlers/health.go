package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/models"
)

// Health handles health check requests
func (h *Handler) Health(c *fiber.Ctx) error {
	resp := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   Version,
	}
	if h.namespaces != nil {
		resp.Namespaces = make(map[string]models.NamespaceHealth)
		for _, name := range h.namespaces.Names() {
			sess, ok := h.namespaces.Lookup(name)
			if !ok {
				continue
			}
			resp.Namespaces[name] = models.NamespaceHealth{
				Refetch:     sess.Refetch(),
				DataSources: sess.Registry().Resolved(),
				Cache:       sess.Cache().Stats(),
			}
		}
	}
	return c.JSON(resp)
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
