package display

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Op names a recorded drawing call.
type Op string

const (
	OpStrokeColor Op = "stroke-color"
	OpFillColor   Op = "fill-color"
	OpTextColor   Op = "text-color"
	OpLine        Op = "line"
	OpPolygon     Op = "polygon"
	OpPolyline    Op = "polyline"
	OpText        Op = "text"
)

// Call is one recorded drawing call. Only the fields relevant to Op are set.
type Call struct {
	Op       Op
	Color    drawing.Color
	Points   []Point
	Width    int
	Text     string
	Font     Font
	Box      Rect
	Overflow Overflow
	Align    Alignment
}

// Recorder is a Context that records calls instead of drawing them.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) add(c Call) {
	r.Calls = append(r.Calls, c)
}

func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

func (r *Recorder) SetStrokeColor(c drawing.Color) { r.add(Call{Op: OpStrokeColor, Color: c}) }
func (r *Recorder) SetFillColor(c drawing.Color)   { r.add(Call{Op: OpFillColor, Color: c}) }
func (r *Recorder) SetTextColor(c drawing.Color)   { r.add(Call{Op: OpTextColor, Color: c}) }

func (r *Recorder) DrawLine(p0, p1 Point) {
	r.add(Call{Op: OpLine, Points: []Point{p0, p1}})
}

func (r *Recorder) FillPolygon(points []Point) {
	r.add(Call{Op: OpPolygon, Points: clonePoints(points)})
}

func (r *Recorder) DrawOpenPolyline(points []Point, strokeWidth int) {
	r.add(Call{Op: OpPolyline, Points: clonePoints(points), Width: strokeWidth})
}

func (r *Recorder) DrawText(text string, font Font, box Rect, overflow Overflow, align Alignment) {
	r.add(Call{Op: OpText, Text: text, Font: font, Box: box, Overflow: overflow, Align: align})
}

// Ops returns the op of every recorded call in order.
func (r *Recorder) Ops() []Op {
	ops := make([]Op, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the recorded calls with the given op.
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.Calls = nil
}
