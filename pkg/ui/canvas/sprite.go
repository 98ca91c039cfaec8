package canvas

import (
	"math"

	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Sprite is a bitmap drawn with nearest-neighbor sampling. X, Y is the
// top-left corner in canvas coordinates and each bitmap pixel covers
// ScaleX x ScaleY canvas units. Pixels equal to Alpha are transparent; the
// zero Alpha makes spaces transparent.
type Sprite struct {
	X, Y    float64
	Rows    []string
	ScaleX  float64
	ScaleY  float64
	Alpha   rune
	Palette map[rune]style.Color
	Color   style.Color
}

// Size returns the sprite size in canvas units.
func (s Sprite) Size() (width, height float64) {
	sx, sy := s.scale()
	cols := 0
	for _, r := range s.Rows {
		cols = max(cols, len([]rune(r)))
	}
	return float64(cols) * sx, float64(len(s.Rows)) * sy
}

func (s Sprite) scale() (float64, float64) {
	sx, sy := s.ScaleX, s.ScaleY
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	return sx, sy
}

func paintSprite(p *Painter, s Sprite) {
	if len(s.Rows) == 0 {
		return
	}
	sx, sy := s.scale()
	alpha := s.Alpha
	if alpha == 0 {
		alpha = ' '
	}
	pixels := make([][]rune, len(s.Rows))
	for i, r := range s.Rows {
		pixels[i] = []rune(r)
	}

	resX, resY := p.Resolution()
	cols := make([]int, int(resX))
	for px := range cols {
		x, _ := p.ToCanvas(px, 0)
		cols[px] = int(math.Floor((x - s.X) / sx))
	}

	for py := 0; py < int(resY); py++ {
		_, y := p.ToCanvas(0, py)
		row := int(math.Floor((s.Y - y) / sy))
		if row < 0 || row >= len(pixels) {
			continue
		}
		for px, col := range cols {
			if col < 0 || col >= len(pixels[row]) {
				continue
			}
			r := pixels[row][col]
			if r == alpha {
				continue
			}
			c, ok := s.Palette[r]
			if !ok {
				c = s.Color
			}
			p.Paint(px, py, c)
		}
	}
}
