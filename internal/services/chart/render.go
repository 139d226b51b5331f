package chart

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"rtlwatch/internal/models"
)

// Renderer executes chart plans onto a pixel surface and encodes PNG.
// Font faces are built once at the configured scale; the renderer itself
// is stateless across renders and safe for concurrent use.
type Renderer struct {
	style    models.ChartStyle
	loc      *time.Location
	tickFace font.Face
	axisFace font.Face
}

// NewRenderer builds a renderer with faces from the bundled Go font
func NewRenderer(style models.ChartStyle, loc *time.Location) (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing builtin font: %w", err)
	}

	scale := style.Scale
	if scale <= 0 {
		scale = 1
		style.Scale = scale
	}
	tickSize := style.TickFontSizePx
	if tickSize <= 0 {
		tickSize = 11
	}
	axisSize := style.AxisLabelFontSizePx
	if axisSize <= 0 {
		axisSize = 12
	}
	if loc == nil {
		loc = time.Local
	}

	return &Renderer{
		style:    style,
		loc:      loc,
		tickFace: truetype.NewFace(f, &truetype.Options{Size: tickSize * scale}),
		axisFace: truetype.NewFace(f, &truetype.Options{Size: axisSize * scale}),
	}, nil
}

// Render plans and draws in one call
func (r *Renderer) Render(data *models.ChartData, width, height int, fixVertical bool, unit string, theme Theme) ([]byte, error) {
	plan := BuildPlan(PlanRequest{
		Data:        data,
		Style:       r.style,
		Width:       width,
		Height:      height,
		FixVertical: fixVertical,
		UnitLabel:   unit,
		Location:    r.loc,
	})
	return r.Execute(plan, theme)
}

// Execute draws a computed plan and returns the encoded PNG. A draw
// panic is converted to an error so a rendering bug can never take the
// serving process down.
func (r *Renderer) Execute(plan Plan, theme Theme) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("chart render panic: %v", rec)
		}
	}()

	s := plan.Scale
	dc := gg.NewContext(plan.Width, plan.Height)

	// Background
	dc.SetColor(theme.Background)
	dc.Clear()

	plotRight := plan.PlotLeft + plan.PlotWidth
	plotBottom := plan.PlotTop + plan.PlotHeight

	// Grid lines
	dc.SetColor(theme.Grid)
	dc.SetLineWidth(s)
	for _, yt := range plan.YTicks {
		dc.DrawLine(plan.PlotLeft, yt.Y, plotRight, yt.Y)
		dc.Stroke()
	}
	for _, xt := range plan.XTicks {
		dc.DrawLine(xt.X, plan.PlotTop, xt.X, plotBottom)
		dc.Stroke()
	}

	// Tick labels
	dc.SetFontFace(r.tickFace)
	dc.SetColor(theme.Foreground)
	for _, yt := range plan.YTicks {
		dc.DrawStringAnchored(yt.Label, plan.PlotLeft-8*s, yt.Y, 1, 0.35)
	}
	for _, xt := range plan.XTicks {
		dc.DrawStringAnchored(xt.Label, xt.X, plotBottom+6*s, 0.5, 1)
	}

	// Axis lines over the grid
	dc.SetColor(theme.Axis)
	dc.SetLineWidth(s)
	dc.DrawLine(plan.PlotLeft, plan.PlotTop, plan.PlotLeft, plotBottom)
	dc.Stroke()
	dc.DrawLine(plan.PlotLeft, plotBottom, plotRight, plotBottom)
	dc.Stroke()

	// Axis titles, the vertical one rotated a quarter turn
	dc.SetFontFace(r.axisFace)
	dc.DrawStringAnchored(plan.XAxisTitle, plan.PlotLeft+plan.PlotWidth/2, float64(plan.Height)-12*s, 0.5, 0.35)
	if plan.YAxisTitle != "" {
		midY := plan.PlotTop + plan.PlotHeight/2
		dc.Push()
		dc.RotateAbout(-math.Pi/2, 16*s, midY)
		dc.DrawStringAnchored(plan.YAxisTitle, 16*s, midY, 0.5, 0.35)
		dc.Pop()
	}

	// Data line or the empty-state placeholder
	if plan.Empty || len(plan.Line) < 2 {
		dc.SetColor(theme.Muted)
		dc.DrawStringAnchored("no data", plan.PlotLeft+plan.PlotWidth/2, plan.PlotTop+plan.PlotHeight/2, 0.5, 0.35)
	} else {
		dc.SetColor(theme.Accent)
		dc.SetLineWidth(2 * s)
		dc.MoveTo(plan.Line[0].X, plan.Line[0].Y)
		for _, p := range plan.Line[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	}

	// Surface border
	dc.SetColor(theme.Border)
	dc.SetLineWidth(s)
	dc.DrawRectangle(s/2, s/2, float64(plan.Width)-s, float64(plan.Height)-s)
	dc.Stroke()

	var buf bytes.Buffer
	if encErr := dc.EncodePNG(&buf); encErr != nil {
		return nil, fmt.Errorf("encoding chart: %w", encErr)
	}
	return buf.Bytes(), nil
}
