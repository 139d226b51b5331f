package handlers

import (
	"github.com/gofiber/fiber/v2"
	"rtlwatch/internal/models"
)

// UI Handlers

// HandleDashboard - GET / or /dashboard - Main dashboard page
func (h *Handlers) HandleDashboard(c *fiber.Ctx) error {
	var sensors []models.Sensor
	for _, s := range h.controller.Sensors() {
		if s.Enabled {
			sensors = append(sensors, s)
		}
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Sensors":      sensors,
		"Selection":    h.controller.Selection(),
		"Status":       h.controller.Status(),
		"RangeOptions": h.cfg.Range.Options,
		"ChartWidth":   h.cfg.Chart.Width,
		"ChartHeight":  h.cfg.Chart.Height,
		"PollSeconds":  h.cfg.Poll.IntervalSeconds,
	})
}

// HandleChartPNG - GET /chart.png - Render the current chart at the
// requested logical size. Serves from the render cache; a resize never
// reaches the backend.
func (h *Handlers) HandleChartPNG(c *fiber.Ctx) error {
	width := c.QueryInt("w", h.cfg.Chart.Width)
	height := c.QueryInt("h", h.cfg.Chart.Height)

	if width < 160 || width > 4000 || height < 120 || height > 4000 {
		return c.Status(400).JSON(fiber.Map{
			"error": "chart size out of bounds",
		})
	}

	png, err := h.controller.ChartPNG(width, height)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "chart render failed",
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}
