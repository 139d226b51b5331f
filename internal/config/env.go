package config

import (
	"os"
	"strconv"
	"strings"

	"rtlwatch/internal/logger"
	"rtlwatch/internal/models"
)

// LoadEnvOverrides applies environment variable overrides to the configuration
func LoadEnvOverrides(cfg *models.Config) {
	log := logger.Default().WithComponent("config-env")

	// Server configuration
	if v := os.Getenv("RTLWATCH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
		log.Info("Environment override applied", "setting", "Server.Host", "value", v)
	}
	if v := os.Getenv("RTLWATCH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
			log.Info("Environment override applied", "setting", "Server.Port", "value", port)
		}
	}

	// Backend configuration
	if v := os.Getenv("RTLWATCH_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
		log.Info("Environment override applied", "setting", "Backend.BaseURL", "value", v)
	}
	if v := os.Getenv("RTLWATCH_BACKEND_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutSeconds = secs
			log.Info("Environment override applied", "setting", "Backend.TimeoutSeconds", "value", secs)
		}
	}

	// Poll configuration
	if v := os.Getenv("RTLWATCH_POLL_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Poll.IntervalSeconds = secs
			log.Info("Environment override applied", "setting", "Poll.IntervalSeconds", "value", secs)
		}
	}
	if v := os.Getenv("RTLWATCH_POLL_POINT_BUDGET"); v != "" {
		if budget, err := strconv.Atoi(v); err == nil {
			cfg.Poll.PointBudget = budget
			log.Info("Environment override applied", "setting", "Poll.PointBudget", "value", budget)
		}
	}

	// Chart configuration
	if v := os.Getenv("RTLWATCH_CHART_WIDTH"); v != "" {
		if w, err := strconv.Atoi(v); err == nil {
			cfg.Chart.Width = w
			log.Info("Environment override applied", "setting", "Chart.Width", "value", w)
		}
	}
	if v := os.Getenv("RTLWATCH_CHART_HEIGHT"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.Chart.Height = h
			log.Info("Environment override applied", "setting", "Chart.Height", "value", h)
		}
	}
	if v := os.Getenv("RTLWATCH_CHART_SCALE"); v != "" {
		if s, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chart.Scale = s
			log.Info("Environment override applied", "setting", "Chart.Scale", "value", s)
		}
	}
	if v := os.Getenv("RTLWATCH_CHART_THEME"); v != "" {
		cfg.Chart.Theme = strings.ToLower(v)
		log.Info("Environment override applied", "setting", "Chart.Theme", "value", cfg.Chart.Theme)
	}
	if v := os.Getenv("RTLWATCH_CHART_TIMEZONE"); v != "" {
		cfg.Chart.Timezone = v
		log.Info("Environment override applied", "setting", "Chart.Timezone", "value", v)
	}

	// Range configuration
	if v := os.Getenv("RTLWATCH_RANGE_DEFAULT_SECONDS"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Range.DefaultSeconds = secs
			log.Info("Environment override applied", "setting", "Range.DefaultSeconds", "value", secs)
		}
	}

	// Metrics configuration
	if v := os.Getenv("RTLWATCH_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
		log.Info("Environment override applied", "setting", "Metrics.Enabled", "value", cfg.Metrics.Enabled)
	}
	if v := os.Getenv("RTLWATCH_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
		log.Info("Environment override applied", "setting", "Metrics.Path", "value", v)
	}
}

// GetConfigPath returns the config file path from env or default
func GetConfigPath() string {
	if path := os.Getenv("RTLWATCH_CONFIG_PATH"); path != "" {
		return path
	}
	return "configs/config.yaml"
}

// GetSensorsPath returns the sensors file path from env or default
func GetSensorsPath() string {
	if path := os.Getenv("RTLWATCH_SENSORS_PATH"); path != "" {
		return path
	}
	return "configs/sensors.yaml"
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true", "1", "yes", "on", "enabled":
		return true
	default:
		return false
	}
}
