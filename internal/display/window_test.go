package display

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"forecastchart/internal/logger"
)

func newTestWindow(maxLayers int) *Window {
	return NewWindow(WindowConfig{
		Size:      Size{W: 144, H: 168},
		MaxLayers: maxLayers,
		Logger:    logger.Discard(),
	})
}

func TestNewWindowStartsDirty(t *testing.T) {
	w := newTestWindow(0)
	if !w.Dirty() {
		t.Error("Expected a new window to need a first render")
	}
	if w.RootLayer().Frame() != R(0, 0, 144, 168) {
		t.Errorf("Unexpected root frame %v", w.RootLayer().Frame())
	}
}

func TestFlushProducesPNG(t *testing.T) {
	w := newTestWindow(0)
	l, err := w.CreateLayer(R(10, 10, 50, 50))
	if err != nil {
		t.Fatalf("CreateLayer() error = %v", err)
	}
	w.SetUpdateProc(l, func(l *Layer, ctx Context) {
		ctx.SetFillColor(ColorRed)
		ctx.FillPolygon([]Point{Pt(0, 0), Pt(50, 0), Pt(50, 50), Pt(0, 50)})
		ctx.SetTextColor(ColorWhite)
		ctx.DrawText("12", Gothic14, R(0, 0, 50, 20), OverflowWordWrap, AlignCenter)
	})
	w.AddChild(w.RootLayer(), l)

	var buf bytes.Buffer
	if err := w.Flush(&buf); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("frame is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 144 || b.Dy() != 168 {
		t.Errorf("Expected 144x168, got %dx%d", b.Dx(), b.Dy())
	}

	r, g, b, _ := img.At(30, 55).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Expected red inside the layer, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(100, 120).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("Expected black background, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestFlushCachesCleanFrame(t *testing.T) {
	w := newTestWindow(0)
	calls := 0
	l, err := w.CreateLayer(R(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("CreateLayer() error = %v", err)
	}
	w.SetUpdateProc(l, func(*Layer, Context) { calls++ })
	w.AddChild(w.RootLayer(), l)

	var first, second bytes.Buffer
	if err := w.Flush(&first); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if err := w.Flush(&second); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if calls != 1 || w.RenderCount() != 1 {
		t.Errorf("Expected one render, got %d update calls and %d renders", calls, w.RenderCount())
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("Expected cached frame to be reused")
	}

	w.MarkDirty(l)
	w.MarkDirty(l)
	if err := w.Flush(&second); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if calls != 2 || w.RenderCount() != 2 {
		t.Errorf("Expected dirty marks to collapse into one render, got %d update calls", calls)
	}
}

func TestCreateLayerBudget(t *testing.T) {
	w := newTestWindow(2)
	for i := 0; i < 2; i++ {
		if _, err := w.CreateLayer(R(0, 0, 10, 10)); err != nil {
			t.Fatalf("CreateLayer(%d) error = %v", i, err)
		}
	}
	if _, err := w.CreateLayer(R(0, 0, 10, 10)); !errors.Is(err, ErrAllocation) {
		t.Errorf("Expected ErrAllocation once the budget is spent, got %v", err)
	}
}

func TestCreateLayerRejectsNegativeSize(t *testing.T) {
	w := newTestWindow(0)
	if _, err := w.CreateLayer(R(0, 0, -1, 10)); !errors.Is(err, ErrAllocation) {
		t.Errorf("Expected ErrAllocation, got %v", err)
	}
}

func TestLayerTree(t *testing.T) {
	w := newTestWindow(0)
	outer, _ := w.CreateLayer(R(10, 20, 100, 100))
	inner, _ := w.CreateLayer(R(5, 5, 20, 20))
	w.AddChild(w.RootLayer(), outer)
	w.AddChild(outer, inner)

	if inner.absoluteOrigin() != Pt(15, 25) {
		t.Errorf("Expected absolute origin (15,25), got %v", inner.absoluteOrigin())
	}

	var order []Point
	record := func(l *Layer, ctx Context) {}
	w.SetUpdateProc(outer, record)
	w.SetUpdateProc(inner, record)
	w.Replay(func(origin Point) Context {
		order = append(order, origin)
		return &Recorder{}
	})
	if len(order) != 2 || order[0] != Pt(10, 20) || order[1] != Pt(15, 25) {
		t.Errorf("Expected parent before child, got %v", order)
	}

	// Re-adding moves the layer instead of duplicating it.
	w.AddChild(w.RootLayer(), inner)
	if len(outer.Children()) != 0 || len(w.RootLayer().Children()) != 2 {
		t.Error("Expected inner to move to the root layer")
	}
}

func TestDestroyLayer(t *testing.T) {
	w := newTestWindow(1)
	l, err := w.CreateLayer(R(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("CreateLayer() error = %v", err)
	}
	w.AddChild(w.RootLayer(), l)

	var buf bytes.Buffer
	if err := w.Flush(&buf); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	w.DestroyLayer(l)
	if !w.Dirty() {
		t.Error("Expected destroy to schedule a redraw")
	}
	if len(w.RootLayer().Children()) != 0 {
		t.Error("Expected destroyed layer to be detached")
	}
	// Calls on a destroyed layer are ignored.
	w.MarkDirty(l)
	w.DestroyLayer(l)
	if _, err := w.CreateLayer(R(0, 0, 10, 10)); err != nil {
		t.Errorf("Expected the freed slot to be reusable, got %v", err)
	}

	w.DestroyLayer(w.RootLayer())
	if w.RootLayer().window != w {
		t.Error("Expected the root layer to survive destroy")
	}
}

func TestFlushClipsToLayerBounds(t *testing.T) {
	w := newTestWindow(0)
	outer, _ := w.CreateLayer(R(20, 20, 40, 40))
	inner, _ := w.CreateLayer(R(30, 30, 40, 40))
	w.AddChild(w.RootLayer(), outer)
	w.AddChild(outer, inner)

	// Both procs paint well past their own frames.
	spill := []Point{Pt(-20, -20), Pt(80, -20), Pt(80, 80), Pt(-20, 80)}
	w.SetUpdateProc(outer, func(l *Layer, ctx Context) {
		ctx.SetFillColor(ColorRed)
		ctx.FillPolygon(spill)
	})
	w.SetUpdateProc(inner, func(l *Layer, ctx Context) {
		ctx.SetFillColor(ColorCobaltBlue)
		ctx.FillPolygon(spill)
	})

	var buf bytes.Buffer
	if err := w.Flush(&buf); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("frame is not a PNG: %v", err)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint32
	}{
		{"left of outer", 10, 30, 0, 0, 0},
		{"below outer", 30, 70, 0, 0, 0},
		{"inside outer", 30, 30, 255, 0, 0},
		{"inside inner", 55, 55, 0, 0x55, 0xaa},
		{"inner past outer edge", 65, 55, 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b, _ := img.At(tt.x, tt.y).RGBA()
		if r>>8 != tt.r || g>>8 != tt.g || b>>8 != tt.b {
			t.Errorf("%s (%d,%d): expected (%d,%d,%d), got (%d,%d,%d)", tt.name, tt.x, tt.y, tt.r, tt.g, tt.b, r>>8, g>>8, b>>8)
		}
	}
}
