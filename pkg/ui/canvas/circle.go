package canvas

import (
	"math"

	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Circle is an outline around a canvas point.
type Circle struct {
	X, Y   float64
	Radius float64
	Color  style.Color
}

// Points is a set of individual canvas points.
type Points struct {
	Coords []geometry.FloatPosition
	Color  style.Color
}

func paintCircle(p *Painter, c Circle) {
	if c.Radius <= 0 {
		if x, y, ok := p.GetPoint(c.X, c.Y); ok {
			p.Paint(x, y, c.Color)
		}
		return
	}

	steps := circleSteps(p, c.Radius)
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := c.X + c.Radius*math.Cos(theta)
		y := c.Y + c.Radius*math.Sin(theta)
		if px, py, ok := p.GetPoint(x, y); ok {
			p.Paint(px, py, c.Color)
		}
	}
}

// circleSteps returns enough angle steps that consecutive samples land on
// adjacent grid points. The count is a multiple of four so the axis
// extremes are always sampled.
func circleSteps(p *Painter, radius float64) int {
	xb, yb := p.Bounds()
	resX, resY := p.Resolution()
	r := 0.0
	if xb.Span() > 0 {
		r = math.Max(r, radius*(resX-1)/xb.Span())
	}
	if yb.Span() > 0 {
		r = math.Max(r, radius*(resY-1)/yb.Span())
	}
	n := max(16, int(math.Ceil(4*math.Pi*r)))
	return (n + 3) / 4 * 4
}

func paintPoints(p *Painter, pts Points) {
	for _, pt := range pts.Coords {
		if x, y, ok := p.GetPoint(pt.X, pt.Y); ok {
			p.Paint(x, y, pts.Color)
		}
	}
}
