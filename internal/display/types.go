package display

import "fmt"

// Point is a pixel coordinate.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Size is a width and height in pixels.
type Size struct {
	W int
	H int
}

// Empty reports whether the size covers no pixels.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Point
	Size   Size
}

// R builds a Rect from its components.
func R(x, y, w, h int) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// Bounds returns the rect moved to the local origin.
func (r Rect) Bounds() Rect {
	return Rect{Size: r.Size}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.Origin.X, r.Origin.Y, r.Size.W, r.Size.H)
}

// Font identifies a system font by key and pixel size. TopPadding is the blank
// space the font reserves above its glyphs; text boxes are laid out with it in
// mind, so the rasterizer pushes glyphs down by the same amount.
type Font struct {
	Key        string
	Size       float64
	TopPadding int
}

// Gothic14 is the hour label font.
var Gothic14 = Font{Key: "GOTHIC_14", Size: 14, TopPadding: 5}

// Alignment controls horizontal text placement inside a box.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Overflow controls what happens to text that does not fit its box.
type Overflow int

const (
	OverflowWordWrap Overflow = iota
	OverflowTrailingEllipsis
	OverflowFill
)
