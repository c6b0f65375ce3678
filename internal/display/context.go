package display

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Context is the drawing context handed to an update proc. Points are in the
// coordinate space of the layer being drawn.
//
// Only odd stroke widths are supported by DrawOpenPolyline; even widths are
// widened by one pixel.
type Context interface {
	SetStrokeColor(c drawing.Color)
	SetFillColor(c drawing.Color)
	SetTextColor(c drawing.Color)

	DrawLine(p0, p1 Point)
	FillPolygon(points []Point)
	DrawOpenPolyline(points []Point, strokeWidth int)
	DrawText(text string, font Font, box Rect, overflow Overflow, align Alignment)
}

// Palette colors used by the watch face.
var (
	ColorBlack      = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	ColorWhite      = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	ColorOrange     = drawing.Color{R: 255, G: 85, B: 0, A: 255}
	ColorLightGray  = drawing.Color{R: 170, G: 170, B: 170, A: 255}
	ColorCobaltBlue = drawing.Color{R: 0, G: 85, B: 170, A: 255}
	ColorPictonBlue = drawing.Color{R: 85, G: 170, B: 255, A: 255}
	ColorRed        = drawing.Color{R: 255, G: 0, B: 0, A: 255}
)

// OddStrokeWidth returns the stroke width actually used for w.
func OddStrokeWidth(w int) int {
	if w < 1 {
		return 1
	}
	if w%2 == 0 {
		return w + 1
	}
	return w
}
