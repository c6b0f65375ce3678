package charts

import (
	"forecastchart/internal/display"
)

// Stroke widths of the two curves. The temperature line is drawn three times
// as thick as the precipitation line.
const (
	precipitationStroke = 1
	temperatureStroke   = 3
)

// Draw issues the draw calls for g. Later calls paint over earlier ones:
// axes, hour marks, precipitation area, precipitation line, temperature line.
func Draw(ctx display.Context, g *Geometry) {
	w, b := g.Canvas.W, g.Baseline

	ctx.SetStrokeColor(display.ColorOrange)
	ctx.DrawLine(display.Pt(0, b), display.Pt(w, b))
	ctx.DrawLine(display.Pt(0, 0), display.Pt(0, b))

	ctx.SetTextColor(display.ColorWhite)
	ctx.SetStrokeColor(display.ColorLightGray)
	for _, m := range g.Marks {
		switch m.Kind {
		case MarkLabel:
			box := display.R(m.X-labelBoxWidth/2, b-labelFontOffset, labelBoxWidth, BottomAxisHeight)
			ctx.DrawText(m.Text(), display.Gothic14, box, display.OverflowWordWrap, display.AlignCenter)
		case MarkTick:
			ctx.DrawLine(display.Pt(m.X, b), display.Pt(m.X, b+tickLength))
		}
	}

	ctx.SetFillColor(display.ColorCobaltBlue)
	ctx.FillPolygon(g.Precipitation)

	ctx.SetStrokeColor(display.ColorPictonBlue)
	ctx.DrawOpenPolyline(g.PrecipitationCurve(), precipitationStroke)

	ctx.SetStrokeColor(display.ColorRed)
	ctx.DrawOpenPolyline(g.Temperature, temperatureStroke)
}
