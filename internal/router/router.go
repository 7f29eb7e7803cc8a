package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/reportkit/internal/config"
	"github.com/soltixdb/reportkit/internal/handlers"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/middleware"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, deps handlers.Dependencies, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, deps)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth)
	v1 := app.Group("/v1", authMiddleware)

	// Catalogs
	v1.Get("/operators/:type", h.Operators)
	v1.Get("/aggregations/:type", h.Aggregations)
	v1.Get("/presets", h.Presets)

	// Filters and formatting
	v1.Post("/filters/tree", h.FilterTree)
	v1.Post("/filters/wire", h.WireFilter)
	v1.Post("/filters/validate", h.ValidateFilter)
	v1.Post("/format", h.Format)

	// Elements
	v1.Post("/namespaces/:namespace/elements/query", h.QueryElement)
	v1.Get("/namespaces/:namespace/datasources/:name/columns", h.DataSourceColumns)

	// Admin
	v1.Post("/admin/refetch", h.Refetch)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, deps handlers.Dependencies, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Server.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, deps, cfg)

	return app
}
