package canvas

import (
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
)

// Label is a line of text anchored at canvas coordinates.
type Label struct {
	X, Y float64
	Line buffer.Line
}

// Context collects the layers and labels of one canvas paint pass.
type Context struct {
	width, height int
	xBounds       Bounds
	yBounds       Bounds
	grid          Grid
	shapes        ShapePainter
	dirty         bool
	layers        []Layer
	labels        []Label
}

// NewContext creates a context for a canvas of width x height cells.
// Shapes drawn on it are dispatched through shapes.
func NewContext(width, height int, x, y Bounds, marker Marker, shapes ShapePainter) *Context {
	if shapes == nil {
		shapes = NewAggregateShapePainter()
	}
	return &Context{
		width:   width,
		height:  height,
		xBounds: x,
		yBounds: y,
		grid:    NewGrid(marker, width, height),
		shapes:  shapes,
	}
}

// Draw rasterizes a shape onto the current layer. Shapes nothing can paint
// are ignored and reported with ok=false.
func (c *Context) Draw(shape Shape) (ok bool) {
	c.dirty = true
	return paintShape(c.shapes, c.Painter(), shape)
}

// Painter returns a painter over the current layer.
func (c *Context) Painter() *Painter {
	return NewPainter(c.grid, c.xBounds, c.yBounds)
}

// Layer saves the shapes drawn so far into a new layer so later shapes are
// drawn on top.
func (c *Context) Layer() {
	if !c.dirty {
		return
	}
	c.layers = append(c.layers, c.grid.Save())
	c.grid.Reset()
	c.dirty = false
}

// Print queues a label at canvas coordinates. Labels are drawn above every
// layer.
func (c *Context) Print(x, y float64, line buffer.Line) {
	c.labels = append(c.labels, Label{X: x, Y: y, Line: line})
}

// Finish flushes pending shapes into a final layer.
func (c *Context) Finish() {
	c.Layer()
}

// Layers returns the saved layers, bottom first.
func (c *Context) Layers() []Layer {
	return c.layers
}

// Labels returns the queued labels.
func (c *Context) Labels() []Label {
	return c.labels
}

// CellOf maps canvas coordinates to a cell relative to the canvas origin.
func (c *Context) CellOf(x, y float64) (cx, cy int, ok bool) {
	if !c.xBounds.Contains(x) || !c.yBounds.Contains(y) {
		return 0, 0, false
	}
	width, height := c.xBounds.Span(), c.yBounds.Span()
	if width <= 0 || height <= 0 || c.width == 0 || c.height == 0 {
		return 0, 0, false
	}
	cx = int((x - c.xBounds.Min) * float64(c.width-1) / width)
	cy = int((c.yBounds.Max - y) * float64(c.height-1) / height)
	return cx, cy, true
}

// Size returns the canvas size in cells.
func (c *Context) Size() (width, height int) {
	return c.width, c.height
}
