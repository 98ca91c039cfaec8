package widgets

import (
	"github.com/odvcencio/cellgrid/pkg/ui/canvas"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// Canvas draws shapes in a continuous coordinate space. Paint is called once
// per render with a fresh context.
type Canvas struct {
	XBounds    canvas.Bounds
	YBounds    canvas.Bounds
	Marker     canvas.Marker
	Background style.Color
	Block      *Block
	Paint      func(ctx *canvas.Context)
}

// NewCanvas creates a braille canvas over the given bounds.
func NewCanvas(x, y canvas.Bounds, paint func(*canvas.Context)) Canvas {
	return Canvas{XBounds: x, YBounds: y, Marker: canvas.Braille, Paint: paint}
}

// WithMarker returns a copy using marker.
func (c Canvas) WithMarker(m canvas.Marker) Canvas {
	c.Marker = m
	return c
}

// WithBackground returns a copy with a background color.
func (c Canvas) WithBackground(bg style.Color) Canvas {
	c.Background = bg
	return c
}

// WithBlock returns a copy rendered inside b.
func (c Canvas) WithBlock(b Block) Canvas {
	c.Block = &b
	return c
}

func renderCanvas(ctx widget.RenderContext, c Canvas) error {
	area := ctx.Area
	if c.Block != nil {
		if err := renderBlock(ctx, *c.Block); err != nil {
			return err
		}
		area = c.Block.Inner(area)
	}
	if area.IsEmpty() {
		return nil
	}
	buf := ctx.Buffer
	if c.Background.IsSet() {
		buf.SetStyle(area, style.New().Background(c.Background))
	}
	if c.Paint == nil {
		return nil
	}

	cc := canvas.NewContext(area.Width, area.Height, c.XBounds, c.YBounds, c.Marker, ctx.Shapes)
	c.Paint(cc)
	cc.Finish()

	for _, layer := range cc.Layers() {
		for _, lc := range layer.Cells {
			cell := buf.At(area.X+lc.X, area.Y+lc.Y)
			if cell == nil {
				continue
			}
			cell.SetSymbol(lc.Symbol).SetStyle(style.New().Foreground(lc.Fg).Background(lc.Bg))
		}
	}
	for _, label := range cc.Labels() {
		x, y, ok := cc.CellOf(label.X, label.Y)
		if !ok {
			continue
		}
		buf.SetLine(area.X+x, area.Y+y, label.Line, area.Width-x)
	}
	return nil
}
