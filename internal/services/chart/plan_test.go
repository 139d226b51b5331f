package chart

import (
	"math"
	"testing"
	"time"

	"rtlwatch/internal/models"
)

const eps = 1e-9

func testStyle(scale float64) models.ChartStyle {
	return models.ChartStyle{
		TickFontSizePx:      11,
		AxisLabelFontSizePx: 12,
		YTickCount:          7,
		XTargetTickCount:    7,
		Scale:               scale,
	}
}

func f64(v float64) *float64 { return &v }

func boundedData(points []models.MergedPoint, startSec, endSec int64) *models.ChartData {
	data := &models.ChartData{
		Points:   points,
		StartSec: startSec,
		EndSec:   endSec,
	}
	for i, p := range points {
		if i == 0 {
			data.MinY = f64(p.Value)
			data.MaxY = f64(p.Value)
			continue
		}
		if p.Value < *data.MinY {
			*data.MinY = p.Value
		}
		if p.Value > *data.MaxY {
			*data.MaxY = p.Value
		}
	}
	return data
}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestPlanMargins(t *testing.T) {
	plan := BuildPlan(PlanRequest{Style: testStyle(1), Width: 800, Height: 400, Location: time.UTC})

	if plan.Width != 800 || plan.Height != 400 {
		t.Errorf("surface %dx%d, want 800x400", plan.Width, plan.Height)
	}
	if !near(plan.PlotLeft, 72) || !near(plan.PlotTop, 14) {
		t.Errorf("plot origin (%f, %f), want (72, 14)", plan.PlotLeft, plan.PlotTop)
	}
	if !near(plan.PlotWidth, 800-72-16) {
		t.Errorf("plot width %f, want %d", plan.PlotWidth, 800-72-16)
	}
	if !near(plan.PlotHeight, 400-14-54) {
		t.Errorf("plot height %f, want %d", plan.PlotHeight, 400-14-54)
	}
}

func TestPlanScalesToDevicePixels(t *testing.T) {
	plan := BuildPlan(PlanRequest{Style: testStyle(2), Width: 800, Height: 400, Location: time.UTC})

	if plan.Width != 1600 || plan.Height != 800 {
		t.Errorf("surface %dx%d, want 1600x800", plan.Width, plan.Height)
	}
	if !near(plan.PlotLeft, 144) || !near(plan.PlotTop, 28) {
		t.Errorf("plot origin (%f, %f), want (144, 28)", plan.PlotLeft, plan.PlotTop)
	}
	if !near(plan.PlotWidth, 1600-144-32) {
		t.Errorf("plot width %f, want %d", plan.PlotWidth, 1600-144-32)
	}
}

func TestYRangeFixedMode(t *testing.T) {
	data := &models.ChartData{MinY: f64(10), MaxY: f64(50)}
	lo, hi := yRange(data, true)
	if !near(lo, 0) || !near(hi, 55) {
		t.Errorf("fixed range [%f, %f], want [0, 55]", lo, hi)
	}
}

func TestYRangeAutoMode(t *testing.T) {
	data := &models.ChartData{MinY: f64(10), MaxY: f64(20)}
	lo, hi := yRange(data, false)
	if !near(lo, 9) || !near(hi, 21) {
		t.Errorf("auto range [%f, %f], want [9, 21]", lo, hi)
	}
}

func TestYRangeConstantSeries(t *testing.T) {
	// A constant series must not collapse to a zero-height range
	data := &models.ChartData{MinY: f64(0), MaxY: f64(0)}
	lo, hi := yRange(data, false)
	if !near(lo, -1) || !near(hi, 1) {
		t.Errorf("constant range [%f, %f], want [-1, 1]", lo, hi)
	}
}

func TestYRangeNoData(t *testing.T) {
	lo, hi := yRange(nil, false)
	if !near(lo, 0) || !near(hi, 1) {
		t.Errorf("empty range [%f, %f], want [0, 1]", lo, hi)
	}
	lo, hi = yRange(&models.ChartData{}, true)
	if !near(lo, 0) || !near(hi, 1) {
		t.Errorf("nil-bounds range [%f, %f], want [0, 1]", lo, hi)
	}
}

func TestYRangeFixedModeZeroMax(t *testing.T) {
	// Fixed mode with max 0 would produce [0, 0]; the plan must widen it
	data := &models.ChartData{MinY: f64(0), MaxY: f64(0)}
	lo, hi := yRange(data, true)
	if hi <= lo {
		t.Errorf("degenerate fixed range [%f, %f] not widened", lo, hi)
	}
}

func TestYTickLayout(t *testing.T) {
	plan := BuildPlan(PlanRequest{Style: testStyle(1), Width: 800, Height: 400, Location: time.UTC})

	// 7 intervals means 8 grid lines including both bounds
	if len(plan.YTicks) != 8 {
		t.Fatalf("expected 8 y ticks, got %d", len(plan.YTicks))
	}
	if plan.YTicks[0].Label != "0.0" {
		t.Errorf("bottom tick label %q, want 0.0", plan.YTicks[0].Label)
	}
	if plan.YTicks[7].Label != "1.0" {
		t.Errorf("top tick label %q, want 1.0", plan.YTicks[7].Label)
	}
	if !near(plan.YTicks[0].Y, plan.PlotTop+plan.PlotHeight) {
		t.Errorf("bottom tick at %f, want plot bottom %f", plan.YTicks[0].Y, plan.PlotTop+plan.PlotHeight)
	}
	if !near(plan.YTicks[7].Y, plan.PlotTop) {
		t.Errorf("top tick at %f, want plot top %f", plan.YTicks[7].Y, plan.PlotTop)
	}
}

func TestXTicksStartAtStepMultiple(t *testing.T) {
	// Span 3600s at target 7 picks a 600s step; first tick rounds 1001 up
	// to 1200 and the rest follow at step spacing through the end bound.
	data := boundedData([]models.MergedPoint{
		{TimestampMs: 1001000, Value: 5},
		{TimestampMs: 4601000, Value: 6},
	}, 1001, 4601)

	plan := BuildPlan(PlanRequest{
		Data: data, Style: testStyle(1), Width: 800, Height: 400, Location: time.UTC,
	})

	if len(plan.XTicks) != 6 {
		t.Fatalf("expected 6 x ticks, got %d", len(plan.XTicks))
	}
	wantFirst := time.Unix(1200, 0).UTC().Format("15:04")
	if plan.XTicks[0].Label != wantFirst {
		t.Errorf("first tick label %q, want %q", plan.XTicks[0].Label, wantFirst)
	}
	for i := 1; i < len(plan.XTicks); i++ {
		if plan.XTicks[i].X <= plan.XTicks[i-1].X {
			t.Fatalf("x ticks not ascending at %d", i)
		}
	}
}

func TestLineMapsRangeBoundsToPlotEdges(t *testing.T) {
	data := boundedData([]models.MergedPoint{
		{TimestampMs: 1000000, Value: 5},
		{TimestampMs: 2000000, Value: 6},
	}, 1000, 2000)

	plan := BuildPlan(PlanRequest{
		Data: data, Style: testStyle(1), Width: 800, Height: 400, Location: time.UTC,
	})

	if plan.Empty {
		t.Fatal("plan unexpectedly empty")
	}
	if len(plan.Line) != 2 {
		t.Fatalf("expected 2 line points, got %d", len(plan.Line))
	}
	if !near(plan.Line[0].X, plan.PlotLeft) {
		t.Errorf("first point x %f, want plot left %f", plan.Line[0].X, plan.PlotLeft)
	}
	if !near(plan.Line[1].X, plan.PlotLeft+plan.PlotWidth) {
		t.Errorf("last point x %f, want plot right %f", plan.Line[1].X, plan.PlotLeft+plan.PlotWidth)
	}
}

func TestLineSkipsNonFiniteCoordinates(t *testing.T) {
	data := &models.ChartData{
		Points: []models.MergedPoint{
			{TimestampMs: 1000000, Value: 1},
			{TimestampMs: 1500000, Value: math.NaN()},
			{TimestampMs: 2000000, Value: 2},
		},
		StartSec: 1000,
		EndSec:   2000,
		MinY:     f64(1),
		MaxY:     f64(2),
	}

	plan := BuildPlan(PlanRequest{
		Data: data, Style: testStyle(1), Width: 800, Height: 400, Location: time.UTC,
	})

	if len(plan.Line) != 2 {
		t.Fatalf("expected the NaN point skipped, got %d line points", len(plan.Line))
	}
}

func TestPlanEmptyStates(t *testing.T) {
	// No data at all
	plan := BuildPlan(PlanRequest{Style: testStyle(1), Width: 800, Height: 400, Location: time.UTC})
	if !plan.Empty {
		t.Error("nil data should plan the placeholder")
	}

	// A single point cannot form a line
	data := boundedData([]models.MergedPoint{{TimestampMs: 1000000, Value: 5}}, 1000, 2000)
	plan = BuildPlan(PlanRequest{
		Data: data, Style: testStyle(1), Width: 800, Height: 400, Location: time.UTC,
	})
	if !plan.Empty {
		t.Error("single point should plan the placeholder")
	}
	// Bounds still produce axis ticks for the empty-state chart
	if len(plan.XTicks) == 0 {
		t.Error("empty-state plan should keep x ticks for the selected bounds")
	}
}

func TestTimeLabelLayouts(t *testing.T) {
	cases := []struct {
		span int64
		want string
	}{
		{span: 3600, want: "15:04"},
		{span: 6 * 3600, want: "15:04"},
		{span: 6*3600 + 1, want: "Mon 15:04"},
		{span: 3 * 86400, want: "Mon 15:04"},
		{span: 3*86400 + 1, want: "Jan 2"},
		{span: 60 * 86400, want: "Jan 2"},
		{span: 60*86400 + 1, want: "2006 Jan"},
		{span: 365 * 86400, want: "2006 Jan"},
	}
	for _, c := range cases {
		if got := timeLabelLayout(c.span); got != c.want {
			t.Errorf("timeLabelLayout(%d) = %q, want %q", c.span, got, c.want)
		}
	}
}

func TestCeilMultiple(t *testing.T) {
	if got := ceilMultiple(1001, 600); got != 1200 {
		t.Errorf("ceilMultiple(1001, 600) = %d, want 1200", got)
	}
	if got := ceilMultiple(1200, 600); got != 1200 {
		t.Errorf("ceilMultiple(1200, 600) = %d, want 1200", got)
	}
	if got := ceilMultiple(0, 600); got != 0 {
		t.Errorf("ceilMultiple(0, 600) = %d, want 0", got)
	}
}
