package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"rtlwatch/internal/models"
)

// API Handlers

// HandleGetStatus - GET /api/status - Current dashboard status with merge diagnostics
func (h *Handlers) HandleGetStatus(c *fiber.Ctx) error {
	status := h.controller.Status()
	selection := h.controller.Selection()

	resp := fiber.Map{
		"status":    status,
		"selection": selection,
		"timestamp": time.Now(),
	}
	if data := h.controller.Data(); data != nil {
		resp["series"] = data.Series
		resp["points"] = len(data.Points)
	}
	return c.JSON(resp)
}

// HandleGetSensors - GET /api/sensors - List the selectable sensor catalog
func (h *Handlers) HandleGetSensors(c *fiber.Ctx) error {
	var enabled []models.Sensor
	for _, s := range h.controller.Sensors() {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}

	return c.JSON(fiber.Map{
		"sensors":   enabled,
		"total":     len(enabled),
		"timestamp": time.Now(),
	})
}

type selectRequest struct {
	Sensor       string `json:"sensor"`
	RangeSeconds int64  `json:"range_seconds"`
	FixVertical  bool   `json:"fix_vertical"`
	Theme        string `json:"theme"`
}

// HandleSelect - POST /api/select - Apply a new selection. The body
// carries the full desired state; sensor and range changes trigger an
// immediate refresh, scale mode and theme only re-render.
func (h *Handlers) HandleSelect(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	current := h.controller.Selection()
	if req.Sensor == "" {
		req.Sensor = current.SensorID
	}
	if req.RangeSeconds == 0 {
		req.RangeSeconds = current.RangeSeconds
	}

	if err := h.controller.SetSelection(c.UserContext(), req.Sensor, req.RangeSeconds, req.FixVertical, req.Theme); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"selection": h.controller.Selection(),
		"status":    h.controller.Status(),
	})
}

// HandleHealth - GET /health - Health check endpoint
func (h *Handlers) HandleHealth(c *fiber.Ctx) error {
	status := h.controller.Status()
	return c.JSON(fiber.Map{
		"status":  "ok",
		"state":   status.State,
		"uptime":  h.controller.Uptime().Seconds(),
		"version": "1.0.0",
	})
}
