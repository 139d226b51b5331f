package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rtlwatch/cmd/server"
	"rtlwatch/internal/config"
	"rtlwatch/internal/handlers"
	"rtlwatch/internal/logger"
	"rtlwatch/internal/middleware"
	"rtlwatch/internal/models"
	"rtlwatch/internal/services/chart"
	"rtlwatch/internal/services/dashboard"
	"rtlwatch/internal/services/query"
)

func main() {
	// Initialize structured logging first
	logger.InitDefault()
	log := logger.Default().WithComponent("main")

	log.Info("🚀 Starting rtlwatch")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	log.Info("✅ Configuration loaded", "backend", cfg.Backend.BaseURL)

	// Load sensor catalog
	sensors, err := config.LoadSensors()
	if err != nil {
		log.Error("Failed to load sensors", "error", err)
		os.Exit(1)
	}
	log.Info("✅ Sensors loaded", "count", len(sensors))

	// Build the query client, guarded by a circuit breaker, and the renderer
	breaker := query.NewBreaker(cfg.Backend.BreakerMaxFailures, cfg.BreakerResetTimeout())
	client := query.NewGuardedClient(query.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout()), breaker)

	renderer, err := chart.NewRenderer(models.ChartStyle{
		TickFontSizePx:      cfg.Chart.TickFontSizePx,
		AxisLabelFontSizePx: cfg.Chart.AxisLabelFontSizePx,
		YTickCount:          cfg.Chart.YTickCount,
		XTargetTickCount:    cfg.Chart.XTargetTickCount,
		Scale:               cfg.Chart.Scale,
	}, cfg.Location())
	if err != nil {
		log.Error("Failed to initialize chart renderer", "error", err)
		os.Exit(1)
	}

	controller, err := dashboard.NewController(cfg, sensors, client, renderer)
	if err != nil {
		log.Error("Failed to initialize dashboard", "error", err)
		os.Exit(1)
	}
	log.Info("✅ Dashboard controller initialized")

	// Start the refresh worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go controller.Run(ctx)
	log.Info("✅ Refresh worker started", "interval_seconds", cfg.Poll.IntervalSeconds)

	// Start metrics updater
	middleware.StartMetricsUpdater(30 * time.Second)
	log.Info("✅ Metrics updater started")

	// Setup graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// Start server
	h := handlers.New(cfg, controller)
	srv := server.SetupFiberApp(cfg, h)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Info("🌐 Server starting", "address", addr)
		if err := srv.Listen(addr); err != nil {
			log.Error("Server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	<-sig
	log.Info("🛑 Shutdown signal received")

	// Cancel context to stop the refresh worker
	cancel()

	// Shutdown server gracefully
	log.Info("⏳ Shutting down server")
	if err := srv.Shutdown(); err != nil {
		log.Error("Server shutdown error", "error", err)
	}

	log.Info("👋 rtlwatch stopped")
}
