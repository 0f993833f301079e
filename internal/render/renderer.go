package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"math"

	"github.com/fogleman/gg"

	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

// ErrRender wraps precondition and encoding failures of the renderer.
// A missing icon is not a render failure: it degrades to a placeholder.
var ErrRender = errors.New("render failed")

// Canvas geometry. The card strip is sized for exactly five day slots.
const (
	canvasWidth  = 700
	canvasHeight = 400

	cardWidth  = 100
	cardHeight = 120
	numCards   = 5
	gap        = (canvasWidth - cardWidth*numCards) / (numCards * 2)

	iconWidth      = 70
	headerIconSize = 90

	graphWidth      = canvasWidth - 2*gap
	barHeightFactor = 10
	textHeight      = 10

	minWindWidth = 10.0
	maxWindWidth = float64(canvasWidth-2*gap) / 8
)

var (
	colWhite        = color.RGBA{255, 255, 255, 255}
	colRaisinBlack  = color.RGBA{32, 33, 36, 255}
	colDarkCharcoal = color.RGBA{48, 49, 52, 255}
	colCafeNoir     = color.RGBA{77, 67, 29, 255}
	colSpaceCadet   = color.RGBA{30, 53, 89, 255}
	colJordyBlue    = color.RGBA{138, 180, 248, 255}
	colTangerine    = color.RGBA{255, 204, 0, 255}
)

// Renderer turns a (day, view) pair plus forecast data into a fixed-size
// PNG. Rendering is idempotent: equal inputs produce identical bytes.
type Renderer struct {
	icons *IconCache
}

func NewRenderer(icons *IconCache) *Renderer {
	return &Renderer{icons: icons}
}

// Render produces the 700x400 chart bitmap for the selected day and view.
func (r *Renderer) Render(ctx context.Context, set *weather.ForecastSet, dayIndex int, view weather.View, location string) ([]byte, error) {
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("%w: empty forecast set", ErrRender)
	}
	if dayIndex < 0 || dayIndex >= set.Pages() {
		return nil, fmt.Errorf("%w: day index %d out of range [0, %d)", ErrRender, dayIndex, set.Pages())
	}
	if !view.Valid() {
		return nil, fmt.Errorf("%w: unknown view %q", ErrRender, view)
	}

	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetColor(colRaisinBlack)
	dc.Clear()

	r.drawCardStrip(ctx, dc, set, dayIndex)
	r.drawHeader(ctx, dc, set.Day(dayIndex), location)
	drawText(dc, string(view), canvasWidth/2, canvasHeight/8, 15, 0.5, 1)

	day := set.Day(dayIndex)
	switch view {
	case weather.ViewTemperature:
		drawTemperatureGraph(dc, day.Samples)
	case weather.ViewPrecipitation:
		drawPrecipitationGraph(dc, day.Samples)
	case weather.ViewWind:
		drawWindGraph(dc, day.Samples)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// drawCardStrip draws one card per available day (at most five), with the
// selected day highlighted.
func (r *Renderer) drawCardStrip(ctx context.Context, dc *gg.Context, set *weather.ForecastSet, selected int) {
	for i := 0; i < set.Pages(); i++ {
		day := set.Day(i)
		x := float64(gap*(2*i+1) + cardWidth*i)
		y := float64(canvasHeight - gap - cardHeight)

		bg := colRaisinBlack
		if i == selected {
			bg = colDarkCharcoal
		}
		dc.SetColor(bg)
		dc.DrawRoundedRectangle(x, y, cardWidth, cardHeight, 15)
		dc.Fill()

		drawText(dc, day.WeekdayShort(), x+cardWidth/2, y+gap/2, 20, 0.5, 1)
		temps := fmt.Sprintf("%.1f°  %.1f°", day.MinTemp(), day.MaxTemp())
		drawText(dc, temps, x+cardWidth/2, y+cardHeight-gap, 15, 0.5, 1)
		r.drawIcon(ctx, dc, day.IconCode(), x+(cardWidth-iconWidth)/2, y+(cardHeight-iconWidth)/2, iconWidth)
	}
}

// drawHeader draws the location name, the day's representative icon, the
// mean temperature, the full weekday and the modal description.
func (r *Renderer) drawHeader(ctx context.Context, dc *gg.Context, day *weather.DaySummary, location string) {
	drawText(dc, location, canvasWidth/2, gap, 20, 0.5, 1)
	r.drawIcon(ctx, dc, day.IconCode(), gap, gap, headerIconSize)
	drawText(dc, fmt.Sprintf("%.1f°", day.AvgTemp()), gap+headerIconSize+5, gap+30, 30, 0, 0.5)
	drawText(dc, day.WeekdayFull(), canvasWidth-gap, gap, 25, 1, 1)
	drawText(dc, day.Description(), canvasWidth-gap, gap+25+10, 15, 1, 1)
}

// drawTemperatureGraph draws a connected area/line chart over the day's
// samples. The baseline sits one degree below the day's coldest sample so
// every segment has positive height. The first point is duplicated so the
// leftmost segment has a left edge.
func drawTemperatureGraph(dc *gg.Context, samples []weather.ForecastSample) {
	baseY := float64(canvasHeight - gap*2 - cardHeight - textHeight)
	floor := temperatureFloor(samples)

	temps := make([]float64, 0, len(samples)+1)
	times := make([]string, 0, len(samples)+1)
	temps = append(temps, samples[0].Temp)
	times = append(times, samples[0].TimeOfDay)
	for _, s := range samples {
		temps = append(temps, s.Temp)
		times = append(times, s.TimeOfDay)
	}

	w := float64(graphWidth) / float64(len(samples))
	for j := 0; j < len(temps)-1; j++ {
		x1 := float64(gap) + w*float64(j)
		x2 := x1 + w
		y1 := baseY - (temps[j]-floor)*barHeightFactor
		y2 := baseY - (temps[j+1]-floor)*barHeightFactor

		dc.SetColor(colCafeNoir)
		dc.MoveTo(x1, y1)
		dc.LineTo(x2, y2)
		dc.LineTo(x2, baseY)
		dc.LineTo(x1, baseY)
		dc.ClosePath()
		dc.Fill()

		dc.SetColor(colTangerine)
		dc.SetLineWidth(1)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()

		textX := x1 + w/2
		drawText(dc, fmt.Sprintf("%.1f°", temps[j+1]), textX, math.Min(y1, y2)-5, 12, 0.5, 0)
		drawText(dc, times[j+1], textX, baseY+textHeight, 12, 0.5, 1)
	}
}

// drawPrecipitationGraph draws one bar per sample. Zero-precipitation
// slots still get their top line and a "0 mm" label.
func drawPrecipitationGraph(dc *gg.Context, samples []weather.ForecastSample) {
	baseY := float64(canvasHeight - gap*2 - cardHeight)
	w := float64(graphWidth) / float64(len(samples))

	for i, s := range samples {
		x1 := float64(gap) + w*float64(i)
		x2 := x1 + w
		y1 := baseY - s.Rain*barHeightFactor*2

		dc.SetColor(colSpaceCadet)
		dc.DrawRectangle(x1, y1, w, baseY-y1)
		dc.Fill()

		dc.SetColor(colJordyBlue)
		dc.SetLineWidth(1)
		dc.DrawLine(x1, y1, x2, y1)
		dc.Stroke()

		drawText(dc, s.TimeOfDay, x1+w/2, baseY+5, 12, 0.5, 1)
		drawText(dc, fmt.Sprintf("%v mm", s.Rain), x1+w/2, y1-5, 12, 0.5, 0)
	}
}

// temperatureFloor returns the chart baseline: one degree below the
// day's coldest sample, so every area segment has positive height.
func temperatureFloor(samples []weather.ForecastSample) float64 {
	floor := samples[0].Temp
	for _, s := range samples {
		if s.Temp < floor {
			floor = s.Temp
		}
	}
	return floor - 1
}

// drawWindGraph draws one direction arrow per sample, scaled by speed
// within a fixed pixel band and rotated to the reported direction.
func drawWindGraph(dc *gg.Context, samples []weather.ForecastSample) {
	maxH := float64(canvasHeight - gap*3 - cardHeight - headerIconSize)
	left := float64(canvasWidth)/2 - maxWindWidth/2*float64(len(samples))
	y := float64(gap + headerIconSize)

	for i, s := range samples {
		speed := s.WindSpeed * 3.6 // display unit is km/h
		size := math.Max(minWindWidth, math.Min(maxWindWidth, speed*1.5))
		x := left + maxWindWidth*float64(i)

		drawText(dc, fmt.Sprintf("%d km/h", int(math.Round(speed))), x+maxWindWidth/2, y, 15, 0.5, 0)
		drawArrow(dc, x+(maxWindWidth-size)/2, y+(maxH-size)/2, size, s.WindDeg)
		drawText(dc, s.TimeOfDay, x+maxWindWidth/2, y+maxH, 12, 0.5, 1)
	}
}

// drawArrow draws an upward arrow inside the (x, y, size, size) box,
// rotated around the box center by deg.
func drawArrow(dc *gg.Context, x, y, size, deg float64) {
	cx := x + size/2
	cy := y + size/2
	shaft := size * 0.35
	head := size * 0.18

	dc.Push()
	dc.RotateAbout(gg.Radians(deg), cx, cy)
	dc.SetColor(colWhite)
	dc.SetLineWidth(math.Max(2, size*0.08))
	dc.DrawLine(cx, cy+shaft, cx, cy-shaft)
	dc.Stroke()
	dc.MoveTo(cx-head, cy-shaft+head)
	dc.LineTo(cx, cy-shaft)
	dc.LineTo(cx+head, cy-shaft+head)
	dc.Stroke()
	dc.Pop()
}

// drawIcon pastes the cached icon bitmap scaled to size. If the fetch
// fails after its retry budget, a placeholder glyph is drawn instead; a
// missing icon never aborts the render.
func (r *Renderer) drawIcon(ctx context.Context, dc *gg.Context, code string, x, y, size float64) {
	icon, err := r.icons.Get(ctx, code)
	if err != nil {
		log.Printf("ERROR: icon %s unavailable, using placeholder: %v", code, err)
		drawIconPlaceholder(dc, x, y, size)
		return
	}

	bounds := icon.Bounds()
	if bounds.Dx() == 0 {
		drawIconPlaceholder(dc, x, y, size)
		return
	}
	scale := size / float64(bounds.Dx())

	dc.Push()
	dc.Translate(x, y)
	dc.Scale(scale, scale)
	dc.DrawImage(icon, 0, 0)
	dc.Pop()
}

func drawIconPlaceholder(dc *gg.Context, x, y, size float64) {
	dc.SetColor(colDarkCharcoal)
	dc.DrawCircle(x+size/2, y+size/2, size/2-2)
	dc.Fill()
	drawText(dc, "?", x+size/2, y+size/2, size*0.4, 0.5, 0.5)
}

// drawText draws s in white at (x, y) with the given font size and gg
// anchor fractions.
func drawText(dc *gg.Context, s string, x, y, size, ax, ay float64) {
	dc.SetFontFace(fontFace(size))
	dc.SetColor(colWhite)
	dc.DrawStringAnchored(s, x, y, ax, ay)
}
