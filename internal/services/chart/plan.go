// Package chart turns merged point sequences into rendered line charts.
// Geometry (axis ranges, ticks, label strings, the polyline) is computed
// in a pure planning pass; a thin draw pass executes the plan on a pixel
// surface. The split keeps every coordinate decision testable without a
// surface.
package chart

import (
	"math"
	"strconv"
	"time"

	"rtlwatch/internal/models"
	"rtlwatch/internal/services/ticks"
)

// Margins in logical pixels, scaled by the style's device pixel ratio.
// Left holds y tick labels, bottom holds x labels plus the axis title.
const (
	marginLeft   = 72
	marginRight  = 16
	marginTop    = 14
	marginBottom = 54
)

// Y-range policy constants
const (
	fixedHeadroom = 1.10 // fixed mode: [0, max*1.10]
	autoPadRatio  = 0.10 // auto mode: pad = (max-min)*0.10
)

// YTick is one horizontal grid line with its right-aligned label
type YTick struct {
	Y     float64
	Label string
}

// XTick is one vertical grid line with its centered time label
type XTick struct {
	X     float64
	Label string
}

// Point is one polyline vertex in device pixels
type Point struct {
	X, Y float64
}

// Plan is the fully computed geometry for one render
type Plan struct {
	Width  int // device px
	Height int
	Scale  float64

	PlotLeft   float64
	PlotTop    float64
	PlotWidth  float64
	PlotHeight float64

	YMin, YMax float64
	YTicks     []YTick
	XTicks     []XTick
	Line       []Point
	Empty      bool // fewer than two points: draw the placeholder

	XAxisTitle string
	YAxisTitle string
}

// PlanRequest bundles the inputs of one planning pass
type PlanRequest struct {
	Data        *models.ChartData
	Style       models.ChartStyle
	Width       int // logical px
	Height      int
	FixVertical bool
	UnitLabel   string
	Location    *time.Location
}

// BuildPlan computes the full chart geometry for a request. It never
// mutates the chart data and is safe to call concurrently.
func BuildPlan(req PlanRequest) Plan {
	scale := req.Style.Scale
	if scale <= 0 {
		scale = 1
	}
	loc := req.Location
	if loc == nil {
		loc = time.Local
	}

	plan := Plan{
		Width:      int(math.Round(float64(req.Width) * scale)),
		Height:     int(math.Round(float64(req.Height) * scale)),
		Scale:      scale,
		XAxisTitle: "Time",
		YAxisTitle: req.UnitLabel,
	}

	plan.PlotLeft = marginLeft * scale
	plan.PlotTop = marginTop * scale
	plan.PlotWidth = float64(plan.Width) - (marginLeft+marginRight)*scale
	plan.PlotHeight = float64(plan.Height) - (marginTop+marginBottom)*scale
	if plan.PlotWidth < 1 {
		plan.PlotWidth = 1
	}
	if plan.PlotHeight < 1 {
		plan.PlotHeight = 1
	}

	data := req.Data
	plan.YMin, plan.YMax = yRange(data, req.FixVertical)
	plan.YTicks = buildYTicks(&plan, req.Style.YTickCount)

	if data != nil && data.EndSec > data.StartSec {
		plan.XTicks = buildXTicks(&plan, data, req.Style.XTargetTickCount, loc)
	}

	if data == nil || len(data.Points) < 2 {
		plan.Empty = true
		return plan
	}

	plan.Line = buildLine(&plan, data)
	return plan
}

// yRange applies the vertical scale policy. Fixed mode anchors zero and
// adds headroom; auto mode pads the data bounds, falling back to a pad of
// one when the series is constant. No data defaults to [0, 1].
func yRange(data *models.ChartData, fixVertical bool) (float64, float64) {
	if data == nil || data.MaxY == nil || data.MinY == nil {
		return 0, 1
	}
	maxY := *data.MaxY
	minY := *data.MinY

	var lo, hi float64
	if fixVertical {
		lo, hi = 0, maxY*fixedHeadroom
	} else {
		pad := (maxY - minY) * autoPadRatio
		if pad == 0 {
			pad = 1
		}
		lo, hi = minY-pad, maxY+pad
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func buildYTicks(plan *Plan, count int) []YTick {
	if count < 1 {
		count = 7
	}
	ticksOut := make([]YTick, 0, count+1)
	for i := 0; i <= count; i++ {
		v := plan.YMin + (plan.YMax-plan.YMin)*float64(i)/float64(count)
		ticksOut = append(ticksOut, YTick{
			Y:     plan.mapY(v),
			Label: strconv.FormatFloat(v, 'f', 1, 64),
		})
	}
	return ticksOut
}

func buildXTicks(plan *Plan, data *models.ChartData, targetCount int, loc *time.Location) []XTick {
	span := data.EndSec - data.StartSec
	step := ticks.ChooseStep(span, targetCount)
	layout := timeLabelLayout(span)

	first := ceilMultiple(data.StartSec, step)
	out := make([]XTick, 0, 8)
	for ts := first; ts <= data.EndSec; ts += step {
		out = append(out, XTick{
			X:     plan.mapX(ts*1000, data),
			Label: time.Unix(ts, 0).In(loc).Format(layout),
		})
	}
	return out
}

func buildLine(plan *Plan, data *models.ChartData) []Point {
	line := make([]Point, 0, len(data.Points))
	for _, p := range data.Points {
		x := plan.mapX(p.TimestampMs, data)
		y := plan.mapY(p.Value)
		// Upstream filtering keeps this from firing in practice
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		line = append(line, Point{X: x, Y: y})
	}
	return line
}

// mapX converts a millisecond timestamp to a device x coordinate
func (p *Plan) mapX(tMs int64, data *models.ChartData) float64 {
	startMs := data.StartSec * 1000
	endMs := data.EndSec * 1000
	denom := float64(endMs - startMs)
	if denom <= 0 {
		denom = 1
	}
	return p.PlotLeft + float64(tMs-startMs)/denom*p.PlotWidth
}

// mapY converts a value to a device y coordinate (y grows downward)
func (p *Plan) mapY(v float64) float64 {
	denom := p.YMax - p.YMin
	if denom <= 0 {
		denom = 1
	}
	return p.PlotTop + p.PlotHeight - (v-p.YMin)/denom*p.PlotHeight
}

// timeLabelLayout picks the x label format for a visible span
func timeLabelLayout(spanSec int64) string {
	switch {
	case spanSec <= 6*3600:
		return "15:04"
	case spanSec <= 3*86400:
		return "Mon 15:04"
	case spanSec <= 60*86400:
		return "Jan 2"
	default:
		return "2006 Jan"
	}
}

// ceilMultiple returns the smallest multiple of step at or above v
func ceilMultiple(v, step int64) int64 {
	if step <= 0 {
		return v
	}
	return ((v + step - 1) / step) * step
}
