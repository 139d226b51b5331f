package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"rtlwatch/internal/logger"
	"rtlwatch/internal/models"
)

// LoadConfig loads configuration from config.yaml. A missing file is not an
// error; the built-in defaults (plus env overrides) apply instead.
func LoadConfig() (models.Config, error) {
	var cfg models.Config

	// Get config path from environment or use default
	configPath := GetConfigPath()
	log := logger.Default().WithComponent("config")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
		log.Info("No config file found, using defaults", "path", configPath)
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Set defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9423
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 10
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:9090"
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 10
	}
	if cfg.Backend.BreakerMaxFailures <= 0 {
		cfg.Backend.BreakerMaxFailures = 5
	}
	if cfg.Backend.BreakerResetSeconds <= 0 {
		cfg.Backend.BreakerResetSeconds = 60
	}
	if cfg.Poll.IntervalSeconds <= 0 {
		cfg.Poll.IntervalSeconds = 15
	}
	if cfg.Poll.PointBudget <= 0 {
		cfg.Poll.PointBudget = 900
	}
	if cfg.Chart.Width <= 0 {
		cfg.Chart.Width = 960
	}
	if cfg.Chart.Height <= 0 {
		cfg.Chart.Height = 420
	}
	if cfg.Chart.Scale <= 0 {
		cfg.Chart.Scale = 2
	}
	if cfg.Chart.Theme == "" {
		cfg.Chart.Theme = "light"
	}
	if cfg.Chart.YTickCount <= 0 {
		cfg.Chart.YTickCount = 7
	}
	if cfg.Chart.XTargetTickCount <= 0 {
		cfg.Chart.XTargetTickCount = 7
	}
	if cfg.Chart.TickFontSizePx <= 0 {
		cfg.Chart.TickFontSizePx = 11
	}
	if cfg.Chart.AxisLabelFontSizePx <= 0 {
		cfg.Chart.AxisLabelFontSizePx = 12
	}
	if cfg.Range.DefaultSeconds <= 0 {
		cfg.Range.DefaultSeconds = 6 * 3600
	}
	if cfg.Range.MinSeconds <= 0 {
		cfg.Range.MinSeconds = 60
	}
	if cfg.Range.MaxSeconds <= 0 {
		cfg.Range.MaxSeconds = 90 * 86400
	}
	if len(cfg.Range.Options) == 0 {
		cfg.Range.Options = DefaultRangeOptions()
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Apply environment variable overrides
	LoadEnvOverrides(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ValidateConfig rejects configurations the dashboard cannot run with
func ValidateConfig(cfg *models.Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url must not be empty")
	}
	if cfg.Range.MinSeconds >= cfg.Range.MaxSeconds {
		return fmt.Errorf("range min_seconds %d must be below max_seconds %d",
			cfg.Range.MinSeconds, cfg.Range.MaxSeconds)
	}
	if cfg.Range.DefaultSeconds < cfg.Range.MinSeconds || cfg.Range.DefaultSeconds > cfg.Range.MaxSeconds {
		return fmt.Errorf("range default_seconds %d outside [%d, %d]",
			cfg.Range.DefaultSeconds, cfg.Range.MinSeconds, cfg.Range.MaxSeconds)
	}
	for _, opt := range cfg.Range.Options {
		if opt.Seconds < cfg.Range.MinSeconds || opt.Seconds > cfg.Range.MaxSeconds {
			return fmt.Errorf("range option %q (%ds) outside [%d, %d]",
				opt.Label, opt.Seconds, cfg.Range.MinSeconds, cfg.Range.MaxSeconds)
		}
	}
	return nil
}

// DefaultRangeOptions returns the built-in range buttons
func DefaultRangeOptions() []models.RangeOption {
	return []models.RangeOption{
		{Label: "1h", Seconds: 3600},
		{Label: "6h", Seconds: 6 * 3600},
		{Label: "24h", Seconds: 86400},
		{Label: "7d", Seconds: 7 * 86400},
		{Label: "30d", Seconds: 30 * 86400},
		{Label: "90d", Seconds: 90 * 86400},
	}
}

// LoadSensors loads the sensor catalog from sensors.yaml. A missing file
// falls back to the built-in rtl_433 catalog.
func LoadSensors() ([]models.Sensor, error) {
	sensorsPath := GetSensorsPath()
	log := logger.Default().WithComponent("config")

	data, err := os.ReadFile(sensorsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading sensors file %s: %w", sensorsPath, err)
		}
		log.Info("No sensors file found, using built-in catalog", "path", sensorsPath)
		return DefaultSensors(), nil
	}

	var sensorsConfig models.SensorsConfig
	if err := yaml.Unmarshal(data, &sensorsConfig); err != nil {
		return nil, fmt.Errorf("parsing sensors config: %w", err)
	}

	if err := validateSensors(sensorsConfig.Sensors); err != nil {
		return nil, err
	}

	log.Info("Sensors loaded", "count", len(sensorsConfig.Sensors), "path", sensorsPath)
	return sensorsConfig.Sensors, nil
}

func validateSensors(sensors []models.Sensor) error {
	if len(sensors) == 0 {
		return fmt.Errorf("sensors file contains no sensors")
	}
	seen := make(map[string]bool, len(sensors))
	enabled := 0
	for _, s := range sensors {
		if s.ID == "" {
			return fmt.Errorf("sensor with empty id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate sensor id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Query == "" {
			return fmt.Errorf("sensor %q has empty query", s.ID)
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("no sensors enabled")
	}
	return nil
}

// DefaultSensors returns the built-in rtl_433 sensor catalog
func DefaultSensors() []models.Sensor {
	return []models.Sensor{
		{
			ID:      "outdoor-temp",
			Label:   "Outdoor temperature",
			Query:   "avg(rtl433_temperature_c)",
			Unit:    "Temperature (°C)",
			Enabled: true,
		},
		{
			ID:      "outdoor-humidity",
			Label:   "Outdoor humidity",
			Query:   "avg(rtl433_humidity_percent)",
			Unit:    "Humidity (%)",
			Enabled: true,
		},
		{
			ID:      "tire-front-left",
			Label:   "Tire pressure (front left)",
			Query:   `rtl433_pressure_psi{model="Toyota",id="d9bd4f7c"}`,
			Unit:    "Pressure (PSI)",
			Enabled: true,
		},
		{
			ID:      "tire-front-right",
			Label:   "Tire pressure (front right)",
			Query:   `rtl433_pressure_psi{model="Toyota",id="d9b796c4"}`,
			Unit:    "Pressure (PSI)",
			Enabled: true,
		},
		{
			ID:      "message-rate",
			Label:   "Receiver message rate",
			Query:   "rate(rtl433_messages_total[5m])",
			Unit:    "Messages/s",
			Enabled: true,
		},
	}
}

// FindSensor returns the sensor with the given id from the catalog
func FindSensor(sensors []models.Sensor, id string) (models.Sensor, bool) {
	for _, s := range sensors {
		if s.ID == id {
			return s, true
		}
	}
	return models.Sensor{}, false
}

// FirstEnabledSensor returns the default selection for a fresh dashboard
func FirstEnabledSensor(sensors []models.Sensor) (models.Sensor, bool) {
	for _, s := range sensors {
		if s.Enabled {
			return s, true
		}
	}
	return models.Sensor{}, false
}
