// Package dashboard owns the single source of truth for what the chart
// currently shows and drives the fetch, merge and render cycle.
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"rtlwatch/internal/config"
	"rtlwatch/internal/logger"
	"rtlwatch/internal/models"
	"rtlwatch/internal/services/chart"
	"rtlwatch/internal/services/series"
	"rtlwatch/internal/services/ticks"
)

// RangeFetcher issues one range query against the metrics backend.
// Satisfied by *query.Client; tests substitute a fake.
type RangeFetcher interface {
	FetchRange(ctx context.Context, q models.RangeQuery) ([]models.RawSeries, error)
}

// renderKey identifies which display state a cached PNG belongs to
type renderKey struct {
	width   int
	height  int
	version uint64
}

// Controller holds the dashboard state: current selection, last known
// good chart data, status texts and the cached render. All mutation goes
// through the mutex; refresh cycles carry a generation number so a slow
// stale response can never overwrite a newer one.
type Controller struct {
	cfg      models.Config
	sensors  []models.Sensor
	client   RangeFetcher
	renderer *chart.Renderer
	log      *logger.Logger

	mu         sync.RWMutex
	selection  models.Selection
	data       *models.ChartData // last known good, nil before first success
	status     models.Status
	errored    bool  // last refresh failed; display the empty state
	errStart   int64 // bounds of the failed refresh for the empty-state chart
	errEnd     int64
	generation uint64 // bumped at the start of every refresh
	version    uint64 // bumped whenever the display content changes
	png        []byte
	pngKey     renderKey
	startTime  time.Time
}

// NewController builds a controller with the first enabled sensor and the
// configured default range selected.
func NewController(cfg models.Config, sensors []models.Sensor, client RangeFetcher, renderer *chart.Renderer) (*Controller, error) {
	sensor, ok := config.FirstEnabledSensor(sensors)
	if !ok {
		return nil, fmt.Errorf("no enabled sensors in catalog")
	}

	c := &Controller{
		cfg:      cfg,
		sensors:  sensors,
		client:   client,
		renderer: renderer,
		log:      logger.Default().WithComponent("dashboard"),
		selection: models.Selection{
			SensorID:     sensor.ID,
			Query:        sensor.Query,
			RangeSeconds: cfg.Range.DefaultSeconds,
			FixVertical:  false,
			Theme:        cfg.Chart.Theme,
		},
		status: models.Status{
			State:     models.StateStarting,
			Message:   "waiting for first refresh",
			RangeText: rangeText(cfg.Range.DefaultSeconds),
			UnitText:  sensor.Unit,
		},
		startTime: time.Now(),
	}
	return c, nil
}

// Run drives the polling loop: one refresh immediately, then one per
// interval until the context is canceled. A failed cycle never stops the
// loop; a slow one is bounded by the backend client timeout, and missed
// ticks are dropped rather than queued.
func (c *Controller) Run(ctx context.Context) {
	interval := c.cfg.PollInterval()
	c.log.Info("📊 Starting dashboard refresh loop", "interval", interval.String())

	c.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Dashboard refresh loop stopping")
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

// Refresh runs one full cycle: compute bounds and step, fetch, merge,
// store, render. On failure the status switches to an error and the
// display becomes the empty-state chart for the attempted bounds; the
// last good data object stays untouched either way.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	sel := c.selection
	c.mu.Unlock()

	endSec := time.Now().Unix()
	startSec := endSec - sel.RangeSeconds
	stepSec := ticks.ResampleStep(sel.RangeSeconds, c.cfg.Poll.PointBudget)

	raw, err := c.client.FetchRange(ctx, models.RangeQuery{
		Query:    sel.Query,
		StartSec: startSec,
		EndSec:   endSec,
		StepSec:  stepSec,
	})
	if err != nil {
		c.completeError(gen, sel, startSec, endSec, err)
		return
	}

	data := series.Merge(raw)
	data.StartSec = startSec
	data.EndSec = endSec
	data.StepSec = stepSec

	c.completeSuccess(gen, sel, &data)
}

func (c *Controller) completeSuccess(gen uint64, sel models.Selection, data *models.ChartData) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		config.RefreshCyclesTotal.WithLabelValues("stale").Inc()
		c.log.Debug("Discarding stale refresh result", "generation", gen)
		return
	}
	c.data = data
	c.errored = false
	c.status = c.buildStatus(sel, data)
	c.version++
	c.mu.Unlock()

	config.RefreshCyclesTotal.WithLabelValues("success").Inc()
	config.LastRefreshTimestamp.SetToCurrentTime()
	config.MergedPointsGauge.Set(float64(len(data.Points)))

	c.log.Debug("Refresh complete",
		"sensor", sel.SensorID,
		"points", len(data.Points),
		"series", data.Series.SeriesCount,
	)

	// Pre-render the default surface so page loads hit the cache
	c.renderCurrent(c.cfg.Chart.Width, c.cfg.Chart.Height, "refresh")
}

func (c *Controller) completeError(gen uint64, sel models.Selection, startSec, endSec int64, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		config.RefreshCyclesTotal.WithLabelValues("stale").Inc()
		return
	}
	c.errored = true
	c.errStart = startSec
	c.errEnd = endSec
	c.status = models.Status{
		State:         models.StateError,
		Message:       err.Error(),
		RangeText:     rangeText(sel.RangeSeconds),
		LastValueText: err.Error(),
		UnitText:      c.unitFor(sel.SensorID),
		UpdatedAt:     time.Now(),
	}
	c.version++
	c.mu.Unlock()

	config.RefreshCyclesTotal.WithLabelValues("error").Inc()
	c.log.Error("Refresh failed", "sensor", sel.SensorID, "error", err.Error())

	c.renderCurrent(c.cfg.Chart.Width, c.cfg.Chart.Height, "refresh")
}

// SetSelection applies a control change. Sensor and range changes
// trigger an immediate refresh; scale-mode and theme changes only
// invalidate the cached render, no network call involved.
func (c *Controller) SetSelection(ctx context.Context, sensorID string, rangeSeconds int64, fixVertical bool, theme string) error {
	sensor, ok := config.FindSensor(c.sensors, sensorID)
	if !ok {
		return fmt.Errorf("unknown sensor %q", sensorID)
	}
	if rangeSeconds <= 0 {
		return fmt.Errorf("invalid range %d", rangeSeconds)
	}
	if rangeSeconds < c.cfg.Range.MinSeconds {
		rangeSeconds = c.cfg.Range.MinSeconds
	}
	if rangeSeconds > c.cfg.Range.MaxSeconds {
		rangeSeconds = c.cfg.Range.MaxSeconds
	}
	if theme != "light" && theme != "dark" {
		theme = ""
	}

	c.mu.Lock()
	needFetch := sensor.ID != c.selection.SensorID || rangeSeconds != c.selection.RangeSeconds
	c.selection.SensorID = sensor.ID
	c.selection.Query = sensor.Query
	c.selection.RangeSeconds = rangeSeconds
	if c.selection.FixVertical != fixVertical {
		c.selection.FixVertical = fixVertical
		c.version++
	}
	if theme != "" && theme != c.selection.Theme {
		c.selection.Theme = theme
		c.version++
	}
	c.mu.Unlock()

	if needFetch {
		c.log.WithSensor(sensor.ID, sensor.Label).Info("Selection changed",
			"range_seconds", rangeSeconds,
		)
		c.Refresh(ctx)
	}
	return nil
}

// ChartPNG returns the chart rendered at the requested logical size from
// the current display state. Pure render path: cached data only, never a
// backend call, so resizes stay cheap and offline-safe.
func (c *Controller) ChartPNG(width, height int) ([]byte, error) {
	if width <= 0 {
		width = c.cfg.Chart.Width
	}
	if height <= 0 {
		height = c.cfg.Chart.Height
	}
	return c.renderCurrent(width, height, "request")
}

// renderCurrent serves the cached PNG when it matches the display state,
// otherwise renders outside the lock and caches the result.
func (c *Controller) renderCurrent(width, height int, trigger string) ([]byte, error) {
	c.mu.RLock()
	key := renderKey{width: width, height: height, version: c.version}
	if c.png != nil && c.pngKey == key {
		out := c.png
		c.mu.RUnlock()
		return out, nil
	}
	data := c.data
	if c.errored {
		data = &models.ChartData{StartSec: c.errStart, EndSec: c.errEnd}
	}
	fix := c.selection.FixVertical
	theme := chart.ThemeByName(c.selection.Theme)
	unit := c.unitFor(c.selection.SensorID)
	c.mu.RUnlock()

	started := time.Now()
	out, err := c.renderer.Render(data, width, height, fix, unit, theme)
	if err != nil {
		c.log.Error("Chart render failed", "error", err.Error())
		return nil, err
	}
	config.ChartRendersTotal.WithLabelValues(trigger).Inc()
	config.ChartRenderDuration.Observe(time.Since(started).Seconds())

	c.mu.Lock()
	if c.version == key.version {
		c.png = out
		c.pngKey = key
	}
	c.mu.Unlock()
	return out, nil
}

// Selection returns a copy of the current selection
func (c *Controller) Selection() models.Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

// Status returns a copy of the current status texts
func (c *Controller) Status() models.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Data returns the last known good chart data. The returned value is
// shared and must be treated as read-only; it is replaced, never
// mutated, by refresh cycles.
func (c *Controller) Data() *models.ChartData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Sensors returns the catalog the controller selects from
func (c *Controller) Sensors() []models.Sensor {
	return c.sensors
}

// Uptime reports how long the controller has been running
func (c *Controller) Uptime() time.Duration {
	return time.Since(c.startTime)
}

func (c *Controller) buildStatus(sel models.Selection, data *models.ChartData) models.Status {
	now := time.Now()
	status := models.Status{
		State:         models.StateOK,
		RangeText:     rangeText(sel.RangeSeconds),
		LastValueText: "no data",
		UnitText:      c.unitFor(sel.SensorID),
		UpdatedAt:     now,
	}
	if last, ok := data.LastPoint(); ok {
		status.LastValueText = strconv.FormatFloat(last.Value, 'f', 1, 64)
		age := now.Sub(time.Unix(0, last.TimestampMs*int64(time.Millisecond)))
		status.Stale = age > 3*c.cfg.PollInterval()
	}
	return status
}

func (c *Controller) unitFor(sensorID string) string {
	if sensor, ok := config.FindSensor(c.sensors, sensorID); ok {
		return sensor.Unit
	}
	return ""
}

// rangeText humanizes a range length for the status line
func rangeText(seconds int64) string {
	switch {
	case seconds%86400 == 0:
		return fmt.Sprintf("Last %dd", seconds/86400)
	case seconds%3600 == 0:
		return fmt.Sprintf("Last %dh", seconds/3600)
	case seconds%60 == 0:
		return fmt.Sprintf("Last %dm", seconds/60)
	default:
		return fmt.Sprintf("Last %ds", seconds)
	}
}
