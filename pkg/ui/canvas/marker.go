// Package canvas maps a continuous coordinate space onto terminal cells.
// Shapes are rasterized into a sub-cell grid whose resolution depends on the
// marker, then flattened into sparse layers of glyphs.
package canvas

import (
	"strings"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// Marker selects the glyphs, and therefore the resolution, of a canvas.
type Marker uint8

const (
	// Dot draws one point per cell as "•".
	Dot Marker = iota
	// Block fills one point per cell with "█".
	Block
	// Bar draws one point per cell as "▄".
	Bar
	// Braille packs 2x4 points into each cell.
	Braille
	// HalfBlock packs two vertical points into each cell.
	HalfBlock
)

var markerNames = [...]string{"dot", "block", "bar", "braille", "halfblock"}

func (m Marker) String() string {
	if int(m) < len(markerNames) {
		return markerNames[m]
	}
	return "unknown"
}

// ParseMarker converts a marker name to a Marker.
func ParseMarker(s string) (Marker, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for i, name := range markerNames {
		if in == name {
			return Marker(i), nil
		}
	}
	return Dot, apperrors.Newf(apperrors.ErrCodeInvalidInput, "unknown marker %q", s)
}

// NewGrid returns the grid backing a marker, sized in cells.
func NewGrid(m Marker, width, height int) Grid {
	switch m {
	case Braille:
		return NewBrailleGrid(width, height)
	case HalfBlock:
		return NewHalfBlockGrid(width, height)
	case Block:
		return NewCharGrid(width, height, "█")
	case Bar:
		return NewCharGrid(width, height, "▄")
	default:
		return NewCharGrid(width, height, "•")
	}
}
