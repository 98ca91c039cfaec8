package canvas

import (
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Grid is a sub-cell resolution surface. Paint coordinates are points, Save
// flattens the points into one glyph per cell.
type Grid interface {
	// Width and Height are in cells.
	Width() int
	Height() int
	// Resolution is the size of the grid in points.
	Resolution() (float64, float64)
	Paint(x, y int, c style.Color)
	Save() Layer
	Reset()
}

// LayerCell is one glyph of a layer, positioned in cells relative to the
// canvas origin.
type LayerCell struct {
	X, Y   int
	Symbol string
	Fg     style.Color
	Bg     style.Color
}

// Layer is a sparse set of glyphs produced by one grid flush.
type Layer struct {
	Cells []LayerCell
}

// brailleDots maps a point inside a 2x4 cell to its dot bit, indexed [row][col].
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// BrailleGrid maps 2x4 points onto each cell.
type BrailleGrid struct {
	width, height int
	dots          []uint8
	colors        []style.Color
}

// NewBrailleGrid creates a braille grid of width x height cells.
func NewBrailleGrid(width, height int) *BrailleGrid {
	n := width * height
	return &BrailleGrid{width: width, height: height, dots: make([]uint8, n), colors: make([]style.Color, n)}
}

func (g *BrailleGrid) Width() int  { return g.width }
func (g *BrailleGrid) Height() int { return g.height }

func (g *BrailleGrid) Resolution() (float64, float64) {
	return float64(g.width * 2), float64(g.height * 4)
}

func (g *BrailleGrid) Paint(x, y int, c style.Color) {
	if x < 0 || y < 0 || x >= g.width*2 || y >= g.height*4 {
		return
	}
	i := (y/4)*g.width + x/2
	g.dots[i] |= brailleDots[y%4][x%2]
	g.colors[i] = c
}

func (g *BrailleGrid) Save() Layer {
	var layer Layer
	for i, bits := range g.dots {
		if bits == 0 {
			continue
		}
		layer.Cells = append(layer.Cells, LayerCell{
			X:      i % g.width,
			Y:      i / g.width,
			Symbol: string(rune(brailleBlank + int(bits))),
			Fg:     g.colors[i],
		})
	}
	return layer
}

func (g *BrailleGrid) Reset() {
	clear(g.dots)
	clear(g.colors)
}

// HalfBlockGrid maps two vertical points onto each cell using the upper and
// lower half block glyphs.
type HalfBlockGrid struct {
	width, height int
	pixels        []style.Color
}

// NewHalfBlockGrid creates a half-block grid of width x height cells.
func NewHalfBlockGrid(width, height int) *HalfBlockGrid {
	return &HalfBlockGrid{width: width, height: height, pixels: make([]style.Color, width*height*2)}
}

func (g *HalfBlockGrid) Width() int  { return g.width }
func (g *HalfBlockGrid) Height() int { return g.height }

func (g *HalfBlockGrid) Resolution() (float64, float64) {
	return float64(g.width), float64(g.height * 2)
}

func (g *HalfBlockGrid) Paint(x, y int, c style.Color) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height*2 {
		return
	}
	g.pixels[y*g.width+x] = c
}

func (g *HalfBlockGrid) Save() Layer {
	var layer Layer
	for cy := 0; cy < g.height; cy++ {
		for cx := 0; cx < g.width; cx++ {
			upper := g.pixels[(cy*2)*g.width+cx]
			lower := g.pixels[(cy*2+1)*g.width+cx]

			cell := LayerCell{X: cx, Y: cy}
			switch {
			case !upper.IsSet() && !lower.IsSet():
				continue
			case upper == lower:
				cell.Symbol, cell.Fg = "█", upper
			case !upper.IsSet():
				cell.Symbol, cell.Fg = "▄", lower
			case !lower.IsSet():
				cell.Symbol, cell.Fg = "▀", upper
			default:
				cell.Symbol, cell.Fg, cell.Bg = "▀", upper, lower
			}
			layer.Cells = append(layer.Cells, cell)
		}
	}
	return layer
}

func (g *HalfBlockGrid) Reset() {
	clear(g.pixels)
}

// CharGrid maps one point onto each cell and draws it with a fixed glyph.
type CharGrid struct {
	width, height int
	symbol        string
	points        []style.Color
}

// NewCharGrid creates a one-point-per-cell grid drawn with symbol.
func NewCharGrid(width, height int, symbol string) *CharGrid {
	return &CharGrid{width: width, height: height, symbol: symbol, points: make([]style.Color, width*height)}
}

func (g *CharGrid) Width() int  { return g.width }
func (g *CharGrid) Height() int { return g.height }

func (g *CharGrid) Resolution() (float64, float64) {
	return float64(g.width), float64(g.height)
}

func (g *CharGrid) Paint(x, y int, c style.Color) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.points[y*g.width+x] = c
}

func (g *CharGrid) Save() Layer {
	var layer Layer
	for i, c := range g.points {
		if !c.IsSet() {
			continue
		}
		layer.Cells = append(layer.Cells, LayerCell{X: i % g.width, Y: i / g.width, Symbol: g.symbol, Fg: c})
	}
	return layer
}

func (g *CharGrid) Reset() {
	clear(g.points)
}
