package buffer

import (
	"strings"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Buffer is a grid of cells covering an area in absolute terminal
// coordinates. Cells are stored row-major.
type Buffer struct {
	area  geometry.Area
	cells []Cell
}

// Empty returns a buffer of blank cells.
func Empty(area geometry.Area) *Buffer {
	return Filled(area, EmptyCell())
}

// Filled returns a buffer where every cell is a copy of c.
func Filled(area geometry.Area, c Cell) *Buffer {
	cells := make([]Cell, area.Cells())
	for i := range cells {
		cells[i] = c
	}
	return &Buffer{area: area, cells: cells}
}

// FromLines builds a buffer from plain strings, one per row, sized to the
// widest line.
func FromLines(lines ...string) *Buffer {
	width := 0
	for _, l := range lines {
		width = max(width, Raw(l).Width())
	}
	b := Empty(geometry.Sized(width, len(lines)))
	for y, l := range lines {
		b.SetString(0, y, l, style.New())
	}
	return b
}

// Area returns the covered area.
func (b *Buffer) Area() geometry.Area {
	return b.area
}

// Cells returns the backing cells in row-major order. The slice is shared
// with the buffer.
func (b *Buffer) Cells() []Cell {
	return b.cells
}

// Index converts an absolute position to a cell index.
func (b *Buffer) Index(x, y int) (int, error) {
	if !b.area.Contains(geometry.Position{X: x, Y: y}) {
		return 0, apperrors.Newf(apperrors.ErrCodeOutOfBounds,
			"position (%d, %d) outside %s", x, y, b.area).
			WithContext("x", x).
			WithContext("y", y)
	}
	return (y-b.area.Y)*b.area.Width + (x - b.area.X), nil
}

// PosOf converts a cell index back to an absolute position.
func (b *Buffer) PosOf(i int) (geometry.Position, error) {
	if i < 0 || i >= len(b.cells) {
		return geometry.Position{}, apperrors.Newf(apperrors.ErrCodeOutOfBounds,
			"index %d outside buffer of %d cells", i, len(b.cells)).WithContext("index", i)
	}
	return geometry.Position{X: b.area.X + i%b.area.Width, Y: b.area.Y + i/b.area.Width}, nil
}

// Get returns the cell at an absolute position.
func (b *Buffer) Get(x, y int) (Cell, error) {
	i, err := b.Index(x, y)
	if err != nil {
		return Cell{}, err
	}
	return b.cells[i], nil
}

// Set replaces the cell at an absolute position.
func (b *Buffer) Set(x, y int, c Cell) error {
	i, err := b.Index(x, y)
	if err != nil {
		return err
	}
	b.cells[i] = c
	return nil
}

// At returns a pointer to the cell at an absolute position, or nil when the
// position lies outside the buffer.
func (b *Buffer) At(x, y int) *Cell {
	if !b.area.Contains(geometry.Position{X: x, Y: y}) {
		return nil
	}
	return &b.cells[(y-b.area.Y)*b.area.Width+(x-b.area.X)]
}

// SetString writes s starting at (x, y) up to the right edge of the buffer.
func (b *Buffer) SetString(x, y int, s string, st style.Style) geometry.Position {
	return b.SetStringN(x, y, s, b.area.Right()-x, st)
}

// SetStringN writes at most maxWidth columns of s starting at (x, y) and
// returns the position after the last written cell. Writes clip at the right
// edge; a wide glyph that does not fit is replaced with blank padding.
// Positions outside the buffer write nothing.
func (b *Buffer) SetStringN(x, y int, s string, maxWidth int, st style.Style) geometry.Position {
	pos := geometry.Position{X: x, Y: y}
	if maxWidth <= 0 || !b.area.Contains(pos) {
		return pos
	}
	limit := min(b.area.Right(), x+maxWidth)

	eachGrapheme(s, func(symbol string, width int) bool {
		if pos.X+width > limit {
			for ; pos.X < limit; pos.X++ {
				b.At(pos.X, y).SetSymbol(" ").SetStyle(st)
			}
			return false
		}
		b.At(pos.X, y).SetSymbol(symbol).SetStyle(st)
		for i := 1; i < width; i++ {
			b.At(pos.X+i, y).Reset()
		}
		pos.X += width
		return pos.X < limit
	})
	return pos
}

// SetSpan writes a span and returns the position after it.
func (b *Buffer) SetSpan(x, y int, span Span, maxWidth int) geometry.Position {
	return b.SetStringN(x, y, span.Content, maxWidth, span.Style)
}

// SetLine writes each span of a line with the line style patched under it.
func (b *Buffer) SetLine(x, y int, line Line, maxWidth int) geometry.Position {
	pos := geometry.Position{X: x, Y: y}
	remaining := maxWidth
	for _, span := range line.Spans {
		if remaining <= 0 {
			break
		}
		next := b.SetStringN(pos.X, y, span.Content, remaining, line.Style.Patch(span.Style))
		remaining -= next.X - pos.X
		pos = next
	}
	return pos
}

// SetStyle patches st onto every cell of area that lies inside the buffer.
// Gradient colors are resolved per cell from its fractional position in area.
func (b *Buffer) SetStyle(area geometry.Area, st style.Style) {
	target := area.Intersection(b.area)
	gradient := st.HasGradient()
	for y := target.Top(); y < target.Bottom(); y++ {
		for x := target.Left(); x < target.Right(); x++ {
			cellStyle := st
			if gradient {
				cellStyle = st.Resolve(area.Fraction(geometry.Position{X: x, Y: y}))
			}
			b.At(x, y).SetStyle(cellStyle)
		}
	}
}

// Fill replaces every cell of area that lies inside the buffer with c.
func (b *Buffer) Fill(area geometry.Area, c Cell) {
	target := area.Intersection(b.area)
	for y := target.Top(); y < target.Bottom(); y++ {
		for x := target.Left(); x < target.Right(); x++ {
			*b.At(x, y) = c
		}
	}
}

// Reset blanks every cell.
func (b *Buffer) Reset() {
	for i := range b.cells {
		b.cells[i].Reset()
	}
}

// Resize changes the covered area, keeping cells whose position lies in
// both the old and the new area.
func (b *Buffer) Resize(area geometry.Area) {
	if area == b.area {
		return
	}
	next := Empty(area)
	overlap := area.Intersection(b.area)
	for y := overlap.Top(); y < overlap.Bottom(); y++ {
		for x := overlap.Left(); x < overlap.Right(); x++ {
			*next.At(x, y) = *b.At(x, y)
		}
	}
	b.area = next.area
	b.cells = next.cells
}

// Merge grows the buffer to the union of both areas and copies other on top.
func (b *Buffer) Merge(other *Buffer) {
	b.Resize(b.area.Union(other.area))
	for i, c := range other.cells {
		pos, _ := other.PosOf(i)
		*b.At(pos.X, pos.Y) = c
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Buffer{area: b.area, cells: cells}
}

// Lines returns the symbols of each row. Cells hidden behind a wide glyph
// are left out.
func (b *Buffer) Lines() []string {
	lines := make([]string, 0, b.area.Height)
	for row := 0; row < b.area.Height; row++ {
		var sb strings.Builder
		skip := 0
		for _, c := range b.cells[row*b.area.Width : (row+1)*b.area.Width] {
			if skip > 0 {
				skip--
				continue
			}
			sb.WriteString(c.Symbol)
			skip = max(0, c.Width()-1)
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}
