package middleware

import (
	"runtime"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"rtlwatch/internal/config"
	"rtlwatch/internal/logger"
)

// MetricsMiddleware collects HTTP request metrics
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		config.ActiveConnectionsGauge.WithLabelValues("http").Inc()
		defer config.ActiveConnectionsGauge.WithLabelValues("http").Dec()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		config.HTTPRequestsTotal.WithLabelValues(
			c.Method(),
			c.Route().Path,
			status,
		).Inc()

		config.HTTPRequestDuration.WithLabelValues(
			c.Method(),
			c.Route().Path,
		).Observe(duration)

		return err
	}
}

// UpdateSystemMetrics updates system-wide metrics
func UpdateSystemMetrics() {
	log := logger.Default().WithComponent("metrics")

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	config.MemoryUsageGauge.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	config.MemoryUsageGauge.WithLabelValues("total_alloc").Set(float64(memStats.TotalAlloc))
	config.MemoryUsageGauge.WithLabelValues("sys").Set(float64(memStats.Sys))
	config.MemoryUsageGauge.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	config.MemoryUsageGauge.WithLabelValues("heap_sys").Set(float64(memStats.HeapSys))

	numGoroutines := runtime.NumGoroutine()
	config.GoroutinesGauge.WithLabelValues().Set(float64(numGoroutines))

	log.Debug("System metrics updated",
		"mem_alloc_mb", float64(memStats.Alloc)/1024/1024,
		"mem_sys_mb", float64(memStats.Sys)/1024/1024,
		"goroutines", numGoroutines,
	)
}

// StartMetricsUpdater starts a goroutine that periodically updates system metrics
func StartMetricsUpdater(interval time.Duration) {
	log := logger.Default().WithComponent("metrics")
	log.Info("Starting metrics updater", "interval", interval)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			UpdateSystemMetrics()
		}
	}()
}
