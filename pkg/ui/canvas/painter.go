package canvas

import (
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Bounds is a closed [Min, Max] interval of canvas coordinates.
type Bounds struct {
	Min, Max float64
}

// Span returns Max - Min.
func (b Bounds) Span() float64 { return b.Max - b.Min }

// Contains reports whether v lies in the interval.
func (b Bounds) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// Painter projects canvas coordinates onto grid points. Y grows upwards in
// canvas space and downwards in grid space.
type Painter struct {
	grid    Grid
	xBounds Bounds
	yBounds Bounds
}

// NewPainter creates a painter over a grid.
func NewPainter(grid Grid, x, y Bounds) *Painter {
	return &Painter{grid: grid, xBounds: x, yBounds: y}
}

// GetPoint converts canvas coordinates to a grid point. Points outside the
// bounds, or bounds with no extent, report ok=false.
func (p *Painter) GetPoint(x, y float64) (px, py int, ok bool) {
	if !p.xBounds.Contains(x) || !p.yBounds.Contains(y) {
		return 0, 0, false
	}
	width, height := p.xBounds.Span(), p.yBounds.Span()
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	resX, resY := p.grid.Resolution()
	if resX <= 0 || resY <= 0 {
		return 0, 0, false
	}
	px = int((x - p.xBounds.Min) * (resX - 1) / width)
	py = int((p.yBounds.Max - y) * (resY - 1) / height)
	return px, py, true
}

// ToCanvas converts a grid point back to canvas coordinates.
func (p *Painter) ToCanvas(px, py int) (x, y float64) {
	resX, resY := p.grid.Resolution()
	x = p.xBounds.Min
	y = p.yBounds.Max
	if resX > 1 {
		x += float64(px) * p.xBounds.Span() / (resX - 1)
	}
	if resY > 1 {
		y -= float64(py) * p.yBounds.Span() / (resY - 1)
	}
	return x, y
}

// Paint sets a grid point. Unset colors paint with the terminal default.
func (p *Painter) Paint(x, y int, c style.Color) {
	if !c.IsSet() {
		c = style.Reset
	}
	p.grid.Paint(x, y, c)
}

// Bounds returns the canvas coordinate bounds.
func (p *Painter) Bounds() (x, y Bounds) {
	return p.xBounds, p.yBounds
}

// Resolution returns the grid size in points.
func (p *Painter) Resolution() (float64, float64) {
	return p.grid.Resolution()
}
