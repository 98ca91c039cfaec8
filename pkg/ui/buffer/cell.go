// Package buffer holds the double-buffered cell grid that widgets render into
// and the diff that turns two frames into a list of cell updates.
package buffer

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Cell is one terminal cell: a grapheme cluster plus its resolved style.
type Cell struct {
	Symbol    string
	Fg        style.Color
	Bg        style.Color
	Underline style.Color
	Modifier  style.Modifier
}

// EmptyCell returns a blank unstyled cell.
func EmptyCell() Cell {
	return Cell{Symbol: " "}
}

// NewCell returns an unstyled cell with the given symbol.
func NewCell(symbol string) Cell {
	return Cell{Symbol: symbol}
}

// SetSymbol replaces the grapheme.
func (c *Cell) SetSymbol(symbol string) *Cell {
	c.Symbol = symbol
	return c
}

// SetStyle patches s onto the cell. Unset colors keep the current value.
func (c *Cell) SetStyle(s style.Style) *Cell {
	if s.Fg.IsSet() {
		c.Fg = s.Fg
	}
	if s.Bg.IsSet() {
		c.Bg = s.Bg
	}
	if s.Underline.IsSet() {
		c.Underline = s.Underline
	}
	c.Modifier = (c.Modifier | s.Add) &^ s.Sub
	return c
}

// Style returns the cell's style as a patch that reproduces it.
func (c Cell) Style() style.Style {
	return style.Style{Fg: c.Fg, Bg: c.Bg, Underline: c.Underline, Add: c.Modifier}
}

// Reset restores the blank unstyled state.
func (c *Cell) Reset() {
	*c = EmptyCell()
}

// Width returns the number of columns the symbol occupies.
func (c Cell) Width() int {
	return symbolWidth(c.Symbol)
}

func symbolWidth(s string) int {
	w := runewidth.StringWidth(s)
	if w > 2 {
		return 2
	}
	return w
}
