// Package widgets provides the core widgets and the extension that renders
// them: bordered blocks, paragraphs, layout grids, clears and canvases.
package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// Borders is a bitset of block sides.
type Borders uint8

const (
	BorderTop Borders = 1 << iota
	BorderRight
	BorderBottom
	BorderLeft

	NoBorders  Borders = 0
	AllBorders         = BorderTop | BorderRight | BorderBottom | BorderLeft
)

// Has reports whether every side in o is set.
func (b Borders) Has(o Borders) bool { return b&o == o }

// BorderType selects the border glyph set.
type BorderType uint8

const (
	Plain BorderType = iota
	Rounded
	Double
	Thick
	Hidden
	Solid
)

// Glyphs returns the border glyph set.
func (t BorderType) Glyphs() lipgloss.Border {
	switch t {
	case Rounded:
		return lipgloss.RoundedBorder()
	case Double:
		return lipgloss.DoubleBorder()
	case Thick:
		return lipgloss.ThickBorder()
	case Hidden:
		return lipgloss.HiddenBorder()
	case Solid:
		return lipgloss.BlockBorder()
	default:
		return lipgloss.NormalBorder()
	}
}

// TitlePosition places the title on the top or bottom border row.
type TitlePosition uint8

const (
	TitleTop TitlePosition = iota
	TitleBottom
)

// Block draws borders, a title and a background, then renders Child inside.
type Block struct {
	Borders       Borders
	BorderType    BorderType
	BorderStyle   style.Style
	Style         style.Style
	Title         buffer.Line
	TitlePosition TitlePosition
	Padding       geometry.Margin
	Child         widget.Widget
}

// NewBlock returns a block without borders.
func NewBlock() Block {
	return Block{}
}

// Bordered returns a block with every border.
func Bordered() Block {
	return Block{Borders: AllBorders}
}

// WithBorders returns a copy with the given sides.
func (b Block) WithBorders(borders Borders) Block {
	b.Borders = borders
	return b
}

// WithBorderType returns a copy with a glyph set.
func (b Block) WithBorderType(t BorderType) Block {
	b.BorderType = t
	return b
}

// WithBorderStyle returns a copy with the border style.
func (b Block) WithBorderStyle(s style.Style) Block {
	b.BorderStyle = s
	return b
}

// WithStyle returns a copy with the style patched over the whole block.
func (b Block) WithStyle(s style.Style) Block {
	b.Style = s
	return b
}

// WithTitle returns a copy with a plain title.
func (b Block) WithTitle(title string) Block {
	b.Title = buffer.LineFrom(title)
	return b
}

// WithTitleLine returns a copy with a styled title.
func (b Block) WithTitleLine(title buffer.Line) Block {
	b.Title = title
	return b
}

// WithTitleAlignment returns a copy with the title aligned.
func (b Block) WithTitleAlignment(a buffer.Alignment) Block {
	b.Title.Alignment = a
	return b
}

// WithTitlePosition returns a copy with the title on the given row.
func (b Block) WithTitlePosition(p TitlePosition) Block {
	b.TitlePosition = p
	return b
}

// WithPadding returns a copy with inner padding.
func (b Block) WithPadding(m geometry.Margin) Block {
	b.Padding = m
	return b
}

// WithChild returns a copy that renders child inside.
func (b Block) WithChild(child widget.Widget) Block {
	b.Child = child
	return b
}

// Inner returns the area left for content inside borders and padding.
func (b Block) Inner(area geometry.Area) geometry.Area {
	var m geometry.Margin
	if b.Borders.Has(BorderTop) || (b.Title.Width() > 0 && b.TitlePosition == TitleTop) {
		m.Top = 1
	}
	if b.Borders.Has(BorderBottom) || (b.Title.Width() > 0 && b.TitlePosition == TitleBottom) {
		m.Bottom = 1
	}
	if b.Borders.Has(BorderLeft) {
		m.Left = 1
	}
	if b.Borders.Has(BorderRight) {
		m.Right = 1
	}
	return area.Inner(m).Inner(b.Padding)
}

func renderBlock(ctx widget.RenderContext, b Block) error {
	area := ctx.Area
	if area.IsEmpty() {
		return nil
	}
	buf := ctx.Buffer
	buf.SetStyle(area, b.Style)
	drawBorders(buf, area, b)
	drawTitle(buf, area, b)
	return ctx.Render(b.Child, b.Inner(area))
}

func drawBorders(buf *buffer.Buffer, area geometry.Area, b Block) {
	if b.Borders == NoBorders {
		return
	}
	g := b.BorderType.Glyphs()
	put := func(x, y int, symbol string) {
		if c := buf.At(x, y); c != nil {
			c.SetSymbol(symbol).SetStyle(b.BorderStyle)
		}
	}
	left, right := area.Left(), area.Right()-1
	top, bottom := area.Top(), area.Bottom()-1

	if b.Borders.Has(BorderLeft) {
		for y := top; y <= bottom; y++ {
			put(left, y, g.Left)
		}
	}
	if b.Borders.Has(BorderRight) {
		for y := top; y <= bottom; y++ {
			put(right, y, g.Right)
		}
	}
	if b.Borders.Has(BorderTop) {
		for x := left; x <= right; x++ {
			put(x, top, g.Top)
		}
	}
	if b.Borders.Has(BorderBottom) {
		for x := left; x <= right; x++ {
			put(x, bottom, g.Bottom)
		}
	}

	if b.Borders.Has(BorderTop | BorderLeft) {
		put(left, top, g.TopLeft)
	}
	if b.Borders.Has(BorderTop | BorderRight) {
		put(right, top, g.TopRight)
	}
	if b.Borders.Has(BorderBottom | BorderLeft) {
		put(left, bottom, g.BottomLeft)
	}
	if b.Borders.Has(BorderBottom | BorderRight) {
		put(right, bottom, g.BottomRight)
	}
}

func drawTitle(buf *buffer.Buffer, area geometry.Area, b Block) {
	if b.Title.Width() == 0 {
		return
	}
	x, width := area.X, area.Width
	if b.Borders.Has(BorderLeft) {
		x++
		width--
	}
	if b.Borders.Has(BorderRight) {
		width--
	}
	if width <= 0 {
		return
	}
	y := area.Top()
	if b.TitlePosition == TitleBottom {
		y = area.Bottom() - 1
	}
	drawAligned(buf, x, y, width, b.Title, b.Title.Alignment)
}

// drawAligned writes a line inside [x, x+width) with the given alignment.
func drawAligned(buf *buffer.Buffer, x, y, width int, line buffer.Line, align buffer.Alignment) {
	slack := max(0, width-line.Width())
	switch align {
	case buffer.AlignCenter:
		x += slack / 2
		width -= slack / 2
	case buffer.AlignRight:
		x += slack
		width -= slack
	}
	buf.SetLine(x, y, line, width)
}
