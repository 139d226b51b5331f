package models

import (
	"time"
)

// Configuration structs
type Config struct {
	Server struct {
		Host                string `yaml:"host"`
		Port                int    `yaml:"port"`
		ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	} `yaml:"server"`
	Backend struct {
		BaseURL             string `yaml:"base_url"`
		TimeoutSeconds      int    `yaml:"timeout_seconds"`
		BreakerMaxFailures  int    `yaml:"breaker_max_failures"`
		BreakerResetSeconds int    `yaml:"breaker_reset_seconds"`
	} `yaml:"backend"`
	Poll struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		PointBudget     int `yaml:"point_budget"` // Target number of points per range query
	} `yaml:"poll"`
	Chart struct {
		Width               int     `yaml:"width"`  // Logical pixels, rendered at Width*Scale
		Height              int     `yaml:"height"`
		Scale               float64 `yaml:"scale"` // Device pixel ratio analog (2 = retina)
		Theme               string  `yaml:"theme"` // "light" or "dark"
		Timezone            string  `yaml:"timezone"`
		YTickCount          int     `yaml:"y_tick_count"`
		XTargetTickCount    int     `yaml:"x_target_tick_count"`
		TickFontSizePx      float64 `yaml:"tick_font_size_px"`
		AxisLabelFontSizePx float64 `yaml:"axis_label_font_size_px"`
	} `yaml:"chart"`
	Range struct {
		DefaultSeconds int64         `yaml:"default_seconds"`
		MinSeconds     int64         `yaml:"min_seconds"`
		MaxSeconds     int64         `yaml:"max_seconds"`
		Options        []RangeOption `yaml:"options"`
	} `yaml:"range"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// RangeOption is one selectable time range button on the dashboard
type RangeOption struct {
	Label   string `yaml:"label" json:"label"`
	Seconds int64  `yaml:"seconds" json:"seconds"`
}

// PollInterval returns the refresh interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// BackendTimeout returns the per-request timeout for backend queries
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// BreakerResetTimeout returns how long the circuit breaker stays open
// before probing the backend again
func (c *Config) BreakerResetTimeout() time.Duration {
	return time.Duration(c.Backend.BreakerResetSeconds) * time.Second
}

// ReadTimeout returns the HTTP server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// Location resolves the configured chart timezone, falling back to Local
func (c *Config) Location() *time.Location {
	if c.Chart.Timezone == "" || c.Chart.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Chart.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Sensor is one selectable chart source backed by a query expression
type Sensor struct {
	ID      string `yaml:"id" json:"id"`
	Label   string `yaml:"label" json:"label"`
	Query   string `yaml:"query" json:"query"`
	Unit    string `yaml:"unit" json:"unit"` // Axis title, e.g. "Temperature (°C)"
	Enabled bool   `yaml:"enabled" json:"enabled"`
}

type SensorsConfig struct {
	Sensors []Sensor `yaml:"sensors"`
}

// RangeQuery describes one query_range request to the backend.
// StartSec < EndSec and StepSec > 0 must hold.
type RangeQuery struct {
	Query    string
	StartSec int64
	EndSec   int64
	StepSec  int64
}

// RawSample is one (timestamp, value) pair as decoded from the wire.
// The value stays a string until the merge step parses it; a timestamp
// that failed numeric coercion arrives as NaN and is dropped there.
type RawSample struct {
	TimestampSec float64
	Value        string
}

// RawSeries is one labeled series from a query_range result
type RawSeries struct {
	Labels  map[string]string
	Samples []RawSample
}

// MergedPoint is one averaged sample on the millisecond timeline
type MergedPoint struct {
	TimestampMs int64   `json:"t"`
	Value       float64 `json:"v"`
}

// SeriesInfo carries per-merge diagnostics for the status line
type SeriesInfo struct {
	SeriesCount     int   `json:"series_count"`
	PointsPerSeries []int `json:"points_per_series"`
	MergedPoints    int   `json:"merged_points"`
	LabelCounts     []int `json:"label_counts"` // Labels per series, in result order
}

// ChartData is the merged, render-ready result of one refresh cycle.
// The controller replaces it wholesale on each successful refresh and
// hands it read-only to the renderer; it is never mutated in place.
// MinY/MaxY are nil when no points survived the merge.
type ChartData struct {
	Points   []MergedPoint `json:"points"`
	StartSec int64         `json:"start_sec"`
	EndSec   int64         `json:"end_sec"`
	StepSec  int64         `json:"step_sec"`
	MaxY     *float64      `json:"max_y"`
	MinY     *float64      `json:"min_y"`
	Series   SeriesInfo    `json:"series"`
}

// LastPoint returns the newest merged point, if any
func (d *ChartData) LastPoint() (MergedPoint, bool) {
	if d == nil || len(d.Points) == 0 {
		return MergedPoint{}, false
	}
	return d.Points[len(d.Points)-1], true
}

// ChartStyle is the static render configuration, fixed at process start
type ChartStyle struct {
	TickFontSizePx      float64
	AxisLabelFontSizePx float64
	YTickCount          int
	XTargetTickCount    int
	Scale               float64
}

// Selection is what the dashboard currently displays
type Selection struct {
	SensorID     string `json:"sensor_id"`
	Query        string `json:"query"`
	RangeSeconds int64  `json:"range_seconds"`
	FixVertical  bool   `json:"fix_vertical"`
	Theme        string `json:"theme"`
}

// Dashboard status states
const (
	StateStarting = "starting"
	StateOK       = "ok"
	StateError    = "error"
)

// Status is the text surface of the dashboard: status line, range label,
// last value and unit, plus a staleness flag derived from the newest point
type Status struct {
	State         string    `json:"state"`
	Message       string    `json:"message,omitempty"`
	RangeText     string    `json:"range_text"`
	LastValueText string    `json:"last_value_text"`
	UnitText      string    `json:"unit_text"`
	UpdatedAt     time.Time `json:"updated_at"`
	Stale         bool      `json:"stale"`
}
