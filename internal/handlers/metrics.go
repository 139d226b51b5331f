package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HandlePrometheusMetrics serves the default Prometheus registry in
// text exposition format.
func HandlePrometheusMetrics() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
