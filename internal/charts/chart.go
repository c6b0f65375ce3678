package charts

import (
	"errors"
	"fmt"

	"forecastchart/internal/display"
	"forecastchart/internal/logger"
)

// Chart is a forecast chart bound to a host layer.
type Chart struct {
	host   Host
	layer  *display.Layer
	source DataSource
	log    *logger.Logger
}

// Option configures a Chart.
type Option func(*Chart)

// WithLogger sets the logger used for skipped renders.
func WithLogger(l *logger.Logger) Option {
	return func(c *Chart) { c.log = l }
}

// Create allocates a layer for frame under parent and registers the chart's
// render callback on it.
func Create(host Host, parent *display.Layer, frame display.Rect, source DataSource, opts ...Option) (*Chart, error) {
	layer, err := host.CreateLayer(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart layer: %w", err)
	}

	c := &Chart{
		host:   host,
		layer:  layer,
		source: source,
		log:    logger.Component("charts"),
	}
	for _, opt := range opts {
		opt(c)
	}

	host.SetUpdateProc(layer, c.update)
	host.AddChild(parent, layer)
	return c, nil
}

// Layer returns the chart's layer.
func (c *Chart) Layer() *display.Layer {
	return c.layer
}

// Refresh asks the host to redraw the chart on its next pass.
func (c *Chart) Refresh() {
	c.host.MarkDirty(c.layer)
}

// Destroy releases the chart's layer. The chart must not be used afterwards.
func (c *Chart) Destroy() {
	c.host.DestroyLayer(c.layer)
	c.layer = nil
}

func (c *Chart) update(l *display.Layer, ctx display.Context) {
	size := l.Bounds().Size
	if err := Render(ctx, size, c.source); err != nil {
		fields := logger.Fields{"width": size.W, "height": size.H, "samples": c.source.SampleCount()}
		if errors.Is(err, ErrTooFewSamples) || errors.Is(err, ErrCanvasTooSmall) {
			c.log.Debug("chart render skipped", fields)
			return
		}
		c.log.Error("chart render skipped", err, fields)
	}
}

// Render lays out the current forecast from src for a canvas of size and
// draws it onto ctx. Nothing is drawn when an error is returned.
func Render(ctx display.Context, size display.Size, src DataSource) error {
	temps, precips, startHour, err := readSeries(src)
	if err != nil {
		return err
	}
	g, err := Layout(size, startHour, temps, precips)
	if err != nil {
		return err
	}
	Draw(ctx, g)
	return nil
}
