// Package handlers wires the HTTP surface to the dashboard controller.
package handlers

import (
	"rtlwatch/internal/models"
	"rtlwatch/internal/services/dashboard"
)

// Handlers binds route handlers to the dashboard controller and the
// loaded configuration.
type Handlers struct {
	cfg        models.Config
	controller *dashboard.Controller
}

func New(cfg models.Config, controller *dashboard.Controller) *Handlers {
	return &Handlers{cfg: cfg, controller: controller}
}
