package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"rtlwatch/internal/handlers"
	"rtlwatch/internal/logger"
	"rtlwatch/internal/middleware"
	"rtlwatch/internal/models"
)

// SetupFiberApp configures and returns the Fiber application
func SetupFiberApp(cfg models.Config, h *handlers.Handlers) *fiber.App {
	log := logger.Default().WithComponent("server")

	// Initialize template engine
	engine := html.New("./web/templates", ".html")
	engine.Reload(true) // Enable auto-reload in development
	engine.Layout("embed") // Use embedded layout system

	// Add custom template functions
	engine.AddFunc("printf", fmt.Sprintf)
	engine.AddFunc("dict", func(values ...interface{}) (map[string]interface{}, error) {
		if len(values)%2 != 0 {
			return nil, fmt.Errorf("invalid dict call")
		}
		dict := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings")
			}
			dict[key] = values[i+1]
		}
		return dict, nil
	})

	fiberApp := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "embed",
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			requestLog := log.WithRequest(c.Method(), c.Path())
			requestLog.Error("Request error", "error", err, "status_code", code, "user_agent", c.Get("User-Agent"))

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Middleware
	fiberApp.Use(recover.New())

	// Performance metrics middleware
	fiberApp.Use(middleware.MetricsMiddleware())

	// Custom structured logging middleware
	fiberApp.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		requestLog := log.WithRequest(c.Method(), c.Path())

		if err != nil {
			requestLog.Error("Request completed with error",
				"status", c.Response().StatusCode(),
				"duration_ms", duration.Milliseconds(),
				"remote_addr", c.IP(),
				"error", err)
		} else {
			requestLog.Info("Request completed",
				"status", c.Response().StatusCode(),
				"duration_ms", duration.Milliseconds(),
				"remote_addr", c.IP())
		}

		return err
	})

	fiberApp.Use(cors.New())

	// Health check endpoint
	fiberApp.Get("/health", h.HandleHealth)

	// Static files
	fiberApp.Static("/static", "./web/static")

	// UI Routes
	fiberApp.Get("/", h.HandleDashboard)
	fiberApp.Get("/dashboard", h.HandleDashboard)
	fiberApp.Get("/chart.png", h.HandleChartPNG)

	// API Routes
	api := fiberApp.Group("/api")
	api.Get("/status", h.HandleGetStatus)
	api.Get("/sensors", h.HandleGetSensors)
	api.Post("/select", h.HandleSelect)
	api.Get("/health", h.HandleHealth)

	// Metrics endpoint (Prometheus format)
	if cfg.Metrics.Enabled {
		fiberApp.Get(cfg.Metrics.Path, handlers.HandlePrometheusMetrics())
	}

	return fiberApp
}
