package canvas

import (
	"math"

	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Line is a segment between two canvas points.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
	Color  style.Color
}

// Rectangle is an axis-aligned outline with its origin at the bottom-left.
type Rectangle struct {
	X, Y          float64
	Width, Height float64
	Color         style.Color
}

func paintRectangle(p *Painter, r Rectangle) {
	left, right := r.X, r.X+r.Width
	bottom, top := r.Y, r.Y+r.Height
	paintLine(p, Line{X1: left, Y1: top, X2: right, Y2: top, Color: r.Color})
	paintLine(p, Line{X1: right, Y1: top, X2: right, Y2: bottom, Color: r.Color})
	paintLine(p, Line{X1: left, Y1: bottom, X2: right, Y2: bottom, Color: r.Color})
	paintLine(p, Line{X1: left, Y1: top, X2: left, Y2: bottom, Color: r.Color})
}

func paintLine(p *Painter, l Line) {
	xb, yb := p.Bounds()
	x1, y1, x2, y2, ok := clipLine(l.X1, l.Y1, l.X2, l.Y2, xb, yb)
	if !ok {
		return
	}
	px1, py1, ok1 := p.GetPoint(x1, y1)
	px2, py2, ok2 := p.GetPoint(x2, y2)
	if !ok1 || !ok2 {
		return
	}

	dx, dy := abs(px2-px1), abs(py2-py1)
	switch {
	case dx == 0:
		for y := min(py1, py2); y <= max(py1, py2); y++ {
			p.Paint(px1, y, l.Color)
		}
	case dy == 0:
		for x := min(px1, px2); x <= max(px1, px2); x++ {
			p.Paint(x, py1, l.Color)
		}
	case dy < dx:
		if px1 > px2 {
			lineLow(p, px2, py2, px1, py1, l.Color)
		} else {
			lineLow(p, px1, py1, px2, py2, l.Color)
		}
	default:
		if py1 > py2 {
			lineHigh(p, px2, py2, px1, py1, l.Color)
		} else {
			lineHigh(p, px1, py1, px2, py2, l.Color)
		}
	}
}

// lineLow steps along x for slopes in (-1, 1). x1 <= x2.
func lineLow(p *Painter, x1, y1, x2, y2 int, c style.Color) {
	dx := x2 - x1
	dy := abs(y2 - y1)
	step := 1
	if y1 > y2 {
		step = -1
	}
	d := 2*dy - dx
	y := y1
	for x := x1; x <= x2; x++ {
		p.Paint(x, y, c)
		if d > 0 {
			y += step
			d -= 2 * dx
		}
		d += 2 * dy
	}
}

// lineHigh steps along y for steep slopes. y1 <= y2.
func lineHigh(p *Painter, x1, y1, x2, y2 int, c style.Color) {
	dx := abs(x2 - x1)
	dy := y2 - y1
	step := 1
	if x1 > x2 {
		step = -1
	}
	d := 2*dx - dy
	x := x1
	for y := y1; y <= y2; y++ {
		p.Paint(x, y, c)
		if d > 0 {
			x += step
			d -= 2 * dy
		}
		d += 2 * dx
	}
}

// clipLine clips a segment to the bounds with the Liang-Barsky algorithm.
func clipLine(x1, y1, x2, y2 float64, xb, yb Bounds) (float64, float64, float64, float64, bool) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x1 - xb.Min, xb.Max - x1, y1 - yb.Min, yb.Max - y1}

	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}

	clampX := func(v float64) float64 { return math.Min(math.Max(v, xb.Min), xb.Max) }
	clampY := func(v float64) float64 { return math.Min(math.Max(v, yb.Min), yb.Max) }
	return clampX(x1 + t0*dx), clampY(y1 + t0*dy), clampX(x1 + t1*dx), clampY(y1 + t1*dy), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
