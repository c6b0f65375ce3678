package display

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"forecastchart/internal/logger"
)

// ErrAllocation is returned when the window cannot create a layer.
var ErrAllocation = errors.New("layer allocation failed")

// DefaultMaxLayers bounds the number of live layers per window.
const DefaultMaxLayers = 16

// WindowConfig describes a window.
type WindowConfig struct {
	Size       Size
	MaxLayers  int
	Background drawing.Color
	// Renderer creates the per-layer raster target and must save PNG.
	// Defaults to chart.PNG.
	Renderer chart.RendererProvider
	Logger   *logger.Logger
}

// Window is the host side of the layer system: it owns a layer tree, tracks
// invalidation and turns the tree into PNG frames.
//
// Update procs run under the window lock and must not call back into the
// window.
type Window struct {
	mu         sync.Mutex
	size       Size
	root       *Layer
	maxLayers  int
	live       int
	background drawing.Color
	provider   chart.RendererProvider
	log        *logger.Logger

	dirty   bool
	frame   []byte
	renders int
}

// NewWindow creates a window with a root layer covering the whole screen.
func NewWindow(cfg WindowConfig) *Window {
	if cfg.MaxLayers <= 0 {
		cfg.MaxLayers = DefaultMaxLayers
	}
	if cfg.Renderer == nil {
		cfg.Renderer = chart.PNG
	}
	if cfg.Background.IsZero() {
		cfg.Background = ColorBlack
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Component("display")
	}

	w := &Window{
		size:       cfg.Size,
		maxLayers:  cfg.MaxLayers,
		background: cfg.Background,
		provider:   cfg.Renderer,
		log:        cfg.Logger,
		dirty:      true,
	}
	w.root = &Layer{frame: Rect{Size: cfg.Size}, window: w}
	return w
}

// Size returns the screen size.
func (w *Window) Size() Size {
	return w.size
}

// RootLayer returns the layer covering the whole window.
func (w *Window) RootLayer() *Layer {
	return w.root
}

// CreateLayer allocates a detached layer with the given frame.
func (w *Window) CreateLayer(frame Rect) (*Layer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if frame.Size.W < 0 || frame.Size.H < 0 {
		return nil, fmt.Errorf("%w: invalid frame %s", ErrAllocation, frame)
	}
	if w.live >= w.maxLayers {
		return nil, fmt.Errorf("%w: layer budget of %d exhausted", ErrAllocation, w.maxLayers)
	}
	w.live++
	return &Layer{frame: frame, window: w}, nil
}

// AddChild attaches child on top of parent's existing children. A child that
// already has a parent is moved.
func (w *Window) AddChild(parent, child *Layer) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if parent == nil || child == nil || parent.window != w || child.window != w {
		return
	}
	child.detach()
	child.parent = parent
	parent.children = append(parent.children, child)
	w.dirty = true
}

// SetUpdateProc registers fn as the layer's draw callback.
func (w *Window) SetUpdateProc(l *Layer, fn UpdateProc) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if l == nil || l.window != w {
		return
	}
	l.update = fn
}

// MarkDirty schedules a redraw. Calls before the next Flush collapse into one
// render pass.
func (w *Window) MarkDirty(l *Layer) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if l == nil || l.window != w {
		return
	}
	w.dirty = true
}

// DestroyLayer detaches and releases l. Its children are detached as well.
func (w *Window) DestroyLayer(l *Layer) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if l == nil || l.window != w || l == w.root {
		return
	}
	l.detach()
	for _, c := range l.children {
		c.parent = nil
	}
	l.children = nil
	l.update = nil
	l.window = nil
	w.live--
	w.dirty = true
}

// Dirty reports whether a redraw is pending.
func (w *Window) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

// RenderCount returns how many render passes Flush has run.
func (w *Window) RenderCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renders
}

// Flush writes the current frame as PNG, rendering the layer tree first when
// a redraw is pending.
func (w *Window) Flush(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dirty || w.frame == nil {
		frame, err := w.render()
		if err != nil {
			return err
		}
		w.frame = frame
		w.dirty = false
		w.renders++
	}

	if _, err := out.Write(w.frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (w *Window) render() ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, w.size.W, w.size.H))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(w.background), image.Point{}, draw.Src)

	font, err := chart.GetDefaultFont()
	if err != nil {
		w.log.Warn("default font unavailable, text will be skipped", logger.Fields{"error": err.Error()})
		font = nil
	}

	if err := w.compose(canvas, w.root, canvas.Bounds(), font); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	w.log.Debug("frame rendered", logger.Fields{"width": w.size.W, "height": w.size.H, "bytes": buf.Len()})
	return buf.Bytes(), nil
}

// compose draws l and its subtree onto canvas, parents before children.
// Each layer is clipped to its own frame and to every ancestor's.
func (w *Window) compose(canvas *image.RGBA, l *Layer, clip image.Rectangle, font *truetype.Font) error {
	origin := l.absoluteOrigin()
	abs := image.Rect(origin.X, origin.Y, origin.X+l.frame.Size.W, origin.Y+l.frame.Size.H)
	clip = clip.Intersect(abs)
	if clip.Empty() {
		return nil
	}

	if l.update != nil {
		img, err := w.rasterize(l, font)
		if err != nil {
			return err
		}
		draw.Draw(canvas, clip, img, clip.Min.Sub(abs.Min), draw.Over)
	}
	for _, c := range l.children {
		if err := w.compose(canvas, c, clip, font); err != nil {
			return err
		}
	}
	return nil
}

// rasterize runs l's update proc on a transparent renderer the size of l.
func (w *Window) rasterize(l *Layer, font *truetype.Font) (image.Image, error) {
	r, err := w.provider(l.frame.Size.W, l.frame.Size.H)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	r.SetDPI(72)
	l.update(l, newRasterContext(r, font))

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode layer: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode layer: %w", err)
	}
	return img, nil
}

// paint runs update procs depth-first, parents before children.
func (w *Window) paint(l *Layer, newContext func(origin Point) Context) {
	if l.update != nil {
		l.update(l, newContext(l.absoluteOrigin()))
	}
	for _, c := range l.children {
		w.paint(c, newContext)
	}
}

// Replay runs the layer tree against contexts produced by newContext without
// touching the cached frame or the dirty flag.
func (w *Window) Replay(newContext func(origin Point) Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paint(w.root, newContext)
}
