package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/services"
	"github.com/soltixdb/reportkit/internal/utils"
)

// QueryElement handles POST /v1/namespaces/:namespace/elements/query
func (h *Handler) QueryElement(c *fiber.Ctx) error {
	body := models.ElementQueryRequest{Query: models.DefaultQuery()}
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}
	if err := body.Validate(); err != nil {
		return invalidRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(requestContext(c), utils.DefaultRequestTimeout)
	defer cancel()

	resp, err := h.queryService.Execute(ctx, c.Params("namespace"), &body)
	if err != nil {
		return h.serviceFailure(c, err, services.CodeQueryFailed)
	}
	return c.JSON(resp)
}

// DataSourceColumns handles GET /v1/namespaces/:namespace/datasources/:name/columns
func (h *Handler) DataSourceColumns(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(requestContext(c), utils.DefaultRequestTimeout)
	defer cancel()

	resp, err := h.queryService.Columns(ctx, c.Params("namespace"), c.Params("name"))
	if err != nil {
		return h.serviceFailure(c, err, services.CodeQueryFailed)
	}
	return c.JSON(resp)
}

// requestContext adds the namespace to the context set up by the logging
// middleware
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ns := c.Params("namespace"); ns != "" {
		ctx = logging.WithNamespace(ctx, ns)
	}
	return ctx
}
