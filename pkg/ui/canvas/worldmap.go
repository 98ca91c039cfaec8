package canvas

import (
	_ "embed"
	"strings"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

//go:embed world.txt
var worldBitmap string

// MapResolution selects how densely the world map is sampled.
type MapResolution uint8

const (
	MapLow MapResolution = iota
	MapHigh
)

// Map draws the world map. Use canvas bounds of [-180, 180] x [-90, 90].
type Map struct {
	Resolution MapResolution
	Color      style.Color
}

// WorldMap is the land mask of an equirectangular world map, decoded once and
// shared by every Map shape.
type WorldMap struct {
	low  []geometry.FloatPosition
	high []geometry.FloatPosition
}

// LoadWorldMap decodes the embedded world bitmap.
func LoadWorldMap() (*WorldMap, error) {
	return ParseWorldMap(worldBitmap)
}

// ParseWorldMap decodes a bitmap where '#' marks land. Row 0 is latitude 90,
// column 0 is longitude -180.
func ParseWorldMap(bitmap string) (*WorldMap, error) {
	lines := strings.Split(strings.TrimRight(bitmap, "\n"), "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	if width == 0 || len(lines) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "world map bitmap is empty")
	}

	cellW := 360 / float64(width)
	cellH := 180 / float64(len(lines))
	w := &WorldMap{}
	for row, l := range lines {
		for col := 0; col < len(l); col++ {
			if l[col] != '#' {
				continue
			}
			lon := -180 + (float64(col)+0.5)*cellW
			lat := 90 - (float64(row)+0.5)*cellH
			w.low = append(w.low, geometry.FloatPosition{X: lon, Y: lat})
			for _, d := range [4][2]float64{{-0.25, -0.25}, {0.25, -0.25}, {-0.25, 0.25}, {0.25, 0.25}} {
				w.high = append(w.high, geometry.FloatPosition{X: lon + d[0]*cellW, Y: lat + d[1]*cellH})
			}
		}
	}
	return w, nil
}

// Points returns the land points for a resolution as (longitude, latitude).
func (w *WorldMap) Points(res MapResolution) []geometry.FloatPosition {
	if res == MapHigh {
		return w.high
	}
	return w.low
}

// MapPainter paints Map shapes from a decoded world map.
func MapPainter(world *WorldMap) ShapePainter {
	return PainterFor(func(p *Painter, m Map) {
		paintPoints(p, Points{Coords: world.Points(m.Resolution), Color: m.Color})
	})
}
