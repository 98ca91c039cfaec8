package geometry

import (
	"fmt"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// Area is an axis-aligned rectangle in terminal cell coordinates.
// Areas are values: every operation returns a new Area.
type Area struct {
	X, Y, Width, Height int
}

// NewArea creates an area, failing on negative origin or dimensions.
func NewArea(x, y, width, height int) (Area, error) {
	if x < 0 || y < 0 || width < 0 || height < 0 {
		return Area{}, apperrors.Newf(apperrors.ErrCodeInvalidGeometry,
			"area (%d, %d, %d, %d) has a negative component", x, y, width, height)
	}
	return Area{X: x, Y: y, Width: width, Height: height}, nil
}

// Rect creates an area without validation. Negative dimensions are clamped to zero.
func Rect(x, y, width, height int) Area {
	return Area{X: x, Y: y, Width: max(0, width), Height: max(0, height)}
}

// Sized creates an area at the origin.
func Sized(width, height int) Area {
	return Rect(0, 0, width, height)
}

// Left returns the first column.
func (a Area) Left() int { return a.X }

// Right returns the column one past the last column.
func (a Area) Right() int { return a.X + a.Width }

// Top returns the first row.
func (a Area) Top() int { return a.Y }

// Bottom returns the row one past the last row.
func (a Area) Bottom() int { return a.Y + a.Height }

// Origin returns the top-left position.
func (a Area) Origin() Position { return Position{X: a.X, Y: a.Y} }

// Cells returns the number of cells covered.
func (a Area) Cells() int { return a.Width * a.Height }

// IsEmpty reports whether the area covers no cells.
func (a Area) IsEmpty() bool { return a.Width <= 0 || a.Height <= 0 }

// Contains reports whether the position lies inside the area.
func (a Area) Contains(p Position) bool {
	return p.X >= a.X && p.X < a.Right() && p.Y >= a.Y && p.Y < a.Bottom()
}

// Intersection returns the overlapping area, or a zero-sized area at the
// clamped origin when the two do not overlap.
func (a Area) Intersection(o Area) Area {
	x1 := max(a.X, o.X)
	y1 := max(a.Y, o.Y)
	x2 := min(a.Right(), o.Right())
	y2 := min(a.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Area{X: x1, Y: y1}
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersects reports whether the two areas overlap.
func (a Area) Intersects(o Area) bool {
	return a.X < o.Right() && a.Right() > o.X && a.Y < o.Bottom() && a.Bottom() > o.Y
}

// Union returns the smallest area containing both.
func (a Area) Union(o Area) Area {
	if a.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return a
	}
	x1 := min(a.X, o.X)
	y1 := min(a.Y, o.Y)
	x2 := max(a.Right(), o.Right())
	y2 := max(a.Bottom(), o.Bottom())
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Inner returns the area shrunk by a margin, never going negative.
func (a Area) Inner(m Margin) Area {
	w := max(0, a.Width-m.Left-m.Right)
	h := max(0, a.Height-m.Top-m.Bottom)
	return Area{
		X:      a.X + min(m.Left, a.Width),
		Y:      a.Y + min(m.Top, a.Height),
		Width:  w,
		Height: h,
	}
}

// Clamp fits the area inside bounds, keeping its size where possible.
func (a Area) Clamp(bounds Area) Area {
	w := min(a.Width, bounds.Width)
	h := min(a.Height, bounds.Height)
	x := min(max(a.X, bounds.X), bounds.Right()-w)
	y := min(max(a.Y, bounds.Y), bounds.Bottom()-h)
	return Area{X: x, Y: y, Width: w, Height: h}
}

// Fraction maps a cell inside the area to its fractional position.
// Single-cell extents map to 0.
func (a Area) Fraction(p Position) FractionalPosition {
	var f FractionalPosition
	if a.Width > 1 {
		f.X = float64(p.X-a.X) / float64(a.Width-1)
	}
	if a.Height > 1 {
		f.Y = float64(p.Y-a.Y) / float64(a.Height-1)
	}
	return f.Clamp()
}

// Row returns the one-row area at offset dy from the top.
func (a Area) Row(dy int) Area {
	if dy < 0 || dy >= a.Height {
		return Area{X: a.X, Y: a.Y + max(0, dy)}
	}
	return Area{X: a.X, Y: a.Y + dy, Width: a.Width, Height: 1}
}

// Positions calls fn for every cell in row-major order.
func (a Area) Positions(fn func(Position)) {
	for y := a.Y; y < a.Bottom(); y++ {
		for x := a.X; x < a.Right(); x++ {
			fn(Position{X: x, Y: y})
		}
	}
}

func (a Area) String() string {
	return fmt.Sprintf("Area{x: %d, y: %d, w: %d, h: %d}", a.X, a.Y, a.Width, a.Height)
}
