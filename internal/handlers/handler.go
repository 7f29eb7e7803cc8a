package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/element"
	"github.com/soltixdb/reportkit/internal/expression"
	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/queue"
	"github.com/soltixdb/reportkit/internal/services"
	"github.com/soltixdb/reportkit/internal/session"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Dependencies are the shared objects the handlers are built on
type Dependencies struct {
	Namespaces      *session.Namespaces
	Resolver        *expression.Resolver
	Formatter       *format.Dispatcher
	Publisher       *queue.RefetchPublisher
	ElementDefaults element.Options
}

// Handler contains all HTTP handlers
type Handler struct {
	logger     *logging.Logger
	namespaces *session.Namespaces
	// Services
	catalogService *services.CatalogService
	filterService  *services.FilterService
	queryService   *services.QueryService
	refetchService *services.RefetchService
}

// New creates a new handler instance
func New(logger *logging.Logger, deps Dependencies) *Handler {
	namespaces := deps.Namespaces
	if namespaces == nil {
		namespaces = session.NewNamespaces()
	}

	return &Handler{
		logger:         logger,
		namespaces:     namespaces,
		catalogService: services.NewCatalogService(deps.Resolver),
		filterService:  services.NewFilterService(logger, deps.Resolver, deps.Formatter),
		queryService:   services.NewQueryService(logger, namespaces, deps.ElementDefaults),
		refetchService: services.NewRefetchService(logger, namespaces, deps.Publisher),
	}
}

// invalidRequest writes a 400 for a failed request validation
func invalidRequest(c *fiber.Ctx, err error) error {
	message := err.Error()
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		message = fiberErr.Message
	}
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    services.CodeInvalidRequest,
			Message: message,
		},
	})
}

// invalidJSON writes a 400 for an unparsable body
func invalidJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_JSON",
			Message: "Invalid JSON body: " + err.Error(),
		},
	})
}

// serviceFailure writes the response for an error returned by a service
func (h *Handler) serviceFailure(c *fiber.Ctx, err error, fallbackCode string) error {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		return c.Status(statusFor(svcErr.Code)).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Path:    c.Path(),
				Details: svcErr.Details,
			},
		})
	}

	h.logger.Error("Unhandled service error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    fallbackCode,
			Message: err.Error(),
			Path:    c.Path(),
		},
	})
}

func statusFor(code string) int {
	switch code {
	case services.CodeInvalidRequest, services.CodeInvalidColumnType, services.CodeInvalidFilter,
		services.CodeUnsupportedChart, services.CodeMissingNamespace, services.CodeMissingDataSource, services.CodeUnresolvedContext:
		return fiber.StatusBadRequest
	case services.CodeDataSourceNotFound:
		return fiber.StatusNotFound
	case services.CodeUpstreamFailed:
		return fiber.StatusBadGateway
	case services.CodeQueryTimeout:
		return fiber.StatusGatewayTimeout
	case services.CodePublishFailed:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
