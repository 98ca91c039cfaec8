// Package geometry provides the cell-coordinate value types shared by the
// buffer, layout and canvas packages.
package geometry

import (
	"fmt"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// Position is a cell coordinate. Both components are non-negative.
type Position struct {
	X, Y int
}

// NewPosition creates a position, failing on negative coordinates.
func NewPosition(x, y int) (Position, error) {
	if x < 0 || y < 0 {
		return Position{}, apperrors.Newf(apperrors.ErrCodeInvalidGeometry,
			"position (%d, %d) has a negative coordinate", x, y).
			WithContext("x", x).
			WithContext("y", y)
	}
	return Position{X: x, Y: y}, nil
}

// Offset returns the position moved by dx, dy.
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// FloatPosition is a real-valued point in an arbitrary coordinate space.
type FloatPosition struct {
	X, Y float64
}

// FractionalPosition is a point expressed as fractions of an area's extent,
// where (0, 0) is the top-left cell and (1, 1) the bottom-right cell.
type FractionalPosition struct {
	X, Y float64
}

// Clamp limits both components to [0, 1].
func (f FractionalPosition) Clamp() FractionalPosition {
	return FractionalPosition{X: clampUnit(f.X), Y: clampUnit(f.Y)}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
