package layout

import (
	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// Direction is the axis children are laid out along.
type Direction uint8

const (
	// Horizontal places children left to right.
	Horizontal Direction = iota
	// Vertical places children top to bottom.
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Layout describes how to split an area. The zero value splits horizontally
// with no constraints.
type Layout struct {
	Direction   Direction
	Constraints []Constraint
	Margin      geometry.Margin
	Spacing     int
}

// New creates a layout.
func New(direction Direction, constraints ...Constraint) Layout {
	return Layout{Direction: direction, Constraints: constraints}
}

// Row creates a horizontal layout.
func Row(constraints ...Constraint) Layout {
	return New(Horizontal, constraints...)
}

// Column creates a vertical layout.
func Column(constraints ...Constraint) Layout {
	return New(Vertical, constraints...)
}

// WithMargin returns a copy that shrinks the area before splitting.
func (l Layout) WithMargin(m geometry.Margin) Layout {
	l.Margin = m
	return l
}

// WithSpacing returns a copy with gap cells between children.
func (l Layout) WithSpacing(n int) Layout {
	l.Spacing = max(0, n)
	return l
}

// Split returns one area per constraint.
func (l Layout) Split(area geometry.Area) ([]geometry.Area, error) {
	return l.SplitN(area, len(l.Constraints))
}

// SplitN returns the areas of the first n children. Every constraint still
// takes its share of the extent. It fails when n exceeds the number of
// constraints.
func (l Layout) SplitN(area geometry.Area, n int) ([]geometry.Area, error) {
	if n > len(l.Constraints) {
		return nil, apperrors.Newf(apperrors.ErrCodeInsufficientConstraints,
			"%d children but only %d constraints", n, len(l.Constraints)).
			WithContext("offset", len(l.Constraints)).
			WithContext("constraints", len(l.Constraints))
	}
	for i, c := range l.Constraints {
		if err := c.validate(i); err != nil {
			return nil, err
		}
	}

	inner := area.Inner(l.Margin)
	main := inner.Width
	if l.Direction == Vertical {
		main = inner.Height
	}

	gaps := 0
	if len(l.Constraints) > 1 {
		gaps = min(main, l.Spacing*(len(l.Constraints)-1))
	}
	sizes := solve(l.Constraints, main-gaps)

	areas := make([]geometry.Area, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		size := sizes[i]
		if l.Direction == Vertical {
			areas = append(areas, geometry.Rect(inner.X, inner.Y+offset, inner.Width, size))
		} else {
			areas = append(areas, geometry.Rect(inner.X+offset, inner.Y, size, inner.Height))
		}
		offset += size
		if i < len(l.Constraints)-1 {
			offset += min(l.Spacing, max(0, main-offset))
		}
	}
	return areas, nil
}
