package display

import (
	"strings"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const ellipsis = "…"

// rasterContext draws layer-local coordinates onto a go-chart renderer sized
// to the layer.
type rasterContext struct {
	r         chart.Renderer
	font      *truetype.Font
	stroke    drawing.Color
	fill      drawing.Color
	textColor drawing.Color
}

func newRasterContext(r chart.Renderer, font *truetype.Font) *rasterContext {
	return &rasterContext{
		r:         r,
		font:      font,
		stroke:    ColorWhite,
		fill:      ColorWhite,
		textColor: ColorWhite,
	}
}

func (c *rasterContext) SetStrokeColor(col drawing.Color) { c.stroke = col }
func (c *rasterContext) SetFillColor(col drawing.Color)   { c.fill = col }
func (c *rasterContext) SetTextColor(col drawing.Color)   { c.textColor = col }

func (c *rasterContext) path(points []Point) {
	c.r.MoveTo(points[0].X, points[0].Y)
	for _, pt := range points[1:] {
		c.r.LineTo(pt.X, pt.Y)
	}
}

func (c *rasterContext) DrawLine(p0, p1 Point) {
	c.r.SetStrokeColor(c.stroke)
	c.r.SetStrokeWidth(1)
	c.path([]Point{p0, p1})
	c.r.Stroke()
}

func (c *rasterContext) FillPolygon(points []Point) {
	if len(points) < 3 {
		return
	}
	c.r.SetFillColor(c.fill)
	c.path(points)
	c.r.Close()
	c.r.Fill()
}

func (c *rasterContext) DrawOpenPolyline(points []Point, strokeWidth int) {
	if len(points) < 2 {
		return
	}
	c.r.SetStrokeColor(c.stroke)
	c.r.SetStrokeWidth(float64(OddStrokeWidth(strokeWidth)))
	c.path(points)
	c.r.Stroke()
}

func (c *rasterContext) DrawText(text string, font Font, box Rect, overflow Overflow, align Alignment) {
	if c.font == nil || text == "" {
		return
	}
	c.r.SetFont(c.font)
	c.r.SetFontSize(font.Size)
	c.r.SetFontColor(c.textColor)

	measure := func(s string) int { return c.r.MeasureText(s).Width() }
	lineHeight := c.r.MeasureText("0").Height()
	if lineHeight <= 0 {
		lineHeight = int(font.Size)
	}

	top := box.Origin.Y + font.TopPadding
	for i, line := range wrapText(text, box.Size.W, overflow, measure) {
		// The first line is always drawn; later ones only while they fit.
		if i > 0 && (i+1)*lineHeight > box.Size.H-font.TopPadding {
			break
		}
		x := box.Origin.X
		switch align {
		case AlignCenter:
			x += (box.Size.W - measure(line)) / 2
		case AlignRight:
			x += box.Size.W - measure(line)
		}
		c.r.Text(line, x, top+(i+1)*lineHeight)
	}
}

// wrapText splits text into lines no wider than maxW according to overflow.
// A single word wider than maxW keeps a line of its own.
func wrapText(text string, maxW int, overflow Overflow, measure func(string) int) []string {
	if overflow == OverflowTrailingEllipsis {
		return []string{truncate(text, maxW, measure)}
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, word := range words[1:] {
			candidate := cur + " " + word
			if measure(candidate) <= maxW {
				cur = candidate
				continue
			}
			lines = append(lines, cur)
			cur = word
		}
		lines = append(lines, cur)
	}
	return lines
}

func truncate(text string, maxW int, measure func(string) int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if measure(text) <= maxW {
		return text
	}
	for len(text) > 0 {
		_, size := utf8.DecodeLastRuneInString(text)
		text = text[:len(text)-size]
		if measure(text+ellipsis) <= maxW {
			break
		}
	}
	return text + ellipsis
}
