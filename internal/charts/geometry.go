package charts

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"forecastchart/internal/display"
)

// Layout constants, in pixels.
const (
	// LabelPadding is the minimum horizontal span one hour label may cover.
	LabelPadding = 17
	// BottomAxisHeight is the strip below the baseline holding hour labels.
	BottomAxisHeight = 9
	// MarginGraphWidth insets the first and last entry from the sides.
	MarginGraphWidth = 7
	// MarginTempHeight keeps the temperature line off the top and the baseline.
	MarginTempHeight = 7

	labelFontOffset = 5
	labelBoxWidth   = 40
	tickLength      = 4

	// MinSamples is the smallest series that has both a range and a spacing.
	MinSamples = 2
)

var (
	ErrTooFewSamples  = errors.New("at least two forecast samples are required")
	ErrCanvasTooSmall = errors.New("canvas too small for chart margins")
	ErrSeriesMismatch = errors.New("temperature and precipitation series differ in length")
)

// MarkKind is the decoration an entry gets on the hour axis.
type MarkKind int

const (
	MarkNone MarkKind = iota
	MarkLabel
	MarkTick
)

// AxisMark is one decorated entry on the hour axis.
type AxisMark struct {
	Index int
	X     int
	Kind  MarkKind
	Hour  int
}

// Text returns the label drawn for the mark.
func (m AxisMark) Text() string {
	return strconv.Itoa(m.Hour)
}

// Geometry is the pixel layout of one render pass.
type Geometry struct {
	Canvas          display.Size
	Baseline        int
	Lo, Hi          int
	EntryWidth      float64
	EntriesPerLabel int

	// Temperature holds one point per sample.
	Temperature []display.Point
	// Precipitation holds one point per sample followed by the two baseline
	// points that close the fill polygon.
	Precipitation []display.Point
	Marks         []AxisMark
}

// PrecipitationCurve returns the precipitation points without the closing pair.
func (g *Geometry) PrecipitationCurve() []display.Point {
	return g.Precipitation[:len(g.Precipitation)-2]
}

// Layout maps a forecast onto a canvas of the given size.
func Layout(size display.Size, startHour int, temps []int16, precips []uint8) (*Geometry, error) {
	n := len(temps)
	if n < MinSamples {
		return nil, fmt.Errorf("%w: have %d", ErrTooFewSamples, n)
	}
	if len(precips) != n {
		return nil, fmt.Errorf("%w: %d temperatures, %d precipitation values", ErrSeriesMismatch, n, len(precips))
	}
	if size.W <= 2*MarginGraphWidth || size.H < BottomAxisHeight+2*MarginTempHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasTooSmall, size.W, size.H)
	}

	lo, hi := minMax(temps)
	baseline := size.H - BottomAxisHeight
	entryWidth := EntryWidth(size.W, n)
	perLabel := EntriesPerLabel(entryWidth)
	tempSpan := size.H - 2*MarginTempHeight - BottomAxisHeight

	g := &Geometry{
		Canvas:          size,
		Baseline:        baseline,
		Lo:              lo,
		Hi:              hi,
		EntryWidth:      entryWidth,
		EntriesPerLabel: perLabel,
		Temperature:     make([]display.Point, n),
		Precipitation:   make([]display.Point, n+2),
	}

	for i := 0; i < n; i++ {
		x := entryX(i, entryWidth)
		g.Precipitation[i] = display.Pt(x, baseline-scale(float64(precips[i])/100, baseline))
		g.Temperature[i] = display.Pt(x, baseline-MarginTempHeight-temperatureHeight(int(temps[i]), lo, hi, tempSpan))

		if kind := markKind(i, perLabel); kind != MarkNone {
			g.Marks = append(g.Marks, AxisMark{
				Index: i,
				X:     x,
				Kind:  kind,
				Hour:  hourAt(startHour, i),
			})
		}
	}

	g.Precipitation[n] = display.Pt(size.W-MarginGraphWidth, baseline)
	g.Precipitation[n+1] = display.Pt(MarginGraphWidth, baseline)
	return g, nil
}

// EntryWidth is the horizontal distance between consecutive samples.
func EntryWidth(canvasWidth, n int) float64 {
	return float64(canvasWidth-2*MarginGraphWidth) / float64(n-1)
}

// EntriesPerLabel returns the smallest number of entries whose span, rounded
// to the pixel grid, reaches LabelPadding.
func EntriesPerLabel(entryWidth float64) int {
	if entryWidth <= 0 {
		return 1
	}
	k := int(math.Ceil((LabelPadding - 0.5) / entryWidth))
	if k < 1 {
		k = 1
	}
	for math.Round(float64(k)*entryWidth) < LabelPadding {
		k++
	}
	for k > 1 && math.Round(float64(k-1)*entryWidth) >= LabelPadding {
		k--
	}
	return k
}

// entryX is computed from i directly so rounding never accumulates.
func entryX(i int, entryWidth float64) int {
	return MarginGraphWidth + int(math.Round(float64(i)*entryWidth))
}

func temperatureHeight(t, lo, hi, span int) int {
	if hi == lo {
		return scale(0.5, span)
	}
	return scale(float64(t-lo)/float64(hi-lo), span)
}

func scale(fraction float64, span int) int {
	return int(math.Round(fraction * float64(span)))
}

// markKind puts ticks at i%k == k/2, so k=3 ticks 1,4,7 as the 144px layout
// requires. The similar-looking (i+k/2)%k == 0 gives 2,5,8 for odd k; do not
// switch to it.
func markKind(i, perLabel int) MarkKind {
	switch {
	case i%perLabel == 0:
		return MarkLabel
	case perLabel > 1 && i%perLabel == perLabel/2:
		return MarkTick
	default:
		return MarkNone
	}
}

func hourAt(startHour, i int) int {
	return ((startHour+i)%24 + 24) % 24
}

func minMax(values []int16) (lo, hi int) {
	lo, hi = int(values[0]), int(values[0])
	for _, v := range values[1:] {
		if int(v) < lo {
			lo = int(v)
		}
		if int(v) > hi {
			hi = int(v)
		}
	}
	return lo, hi
}
