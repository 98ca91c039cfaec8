package main

import (
	"fmt"
	"math"
	"time"

	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/canvas"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/layout"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
	"github.com/odvcencio/cellgrid/pkg/ui/widgets"
)

// demoLogEvery is how often, in frames, an inline demo prints a log line
// above its viewport.
const demoLogEvery = 30

type demo struct {
	marker canvas.Marker
	start  time.Time
	title  style.Style
}

func newDemo(marker canvas.Marker, start time.Time) (*demo, error) {
	g, err := style.NewLinearGradient(style.RGB(0x5f, 0xd7, 0xff)).AddStop(1, style.RGB(0xd7, 0x5f, 0xff))
	if err != nil {
		return nil, err
	}
	return &demo{
		marker: marker,
		start:  start,
		title:  style.New().Foreground(style.Gradient(g)).Bold(),
	}, nil
}

// frame builds the dashboard for frame n.
func (d *demo) frame(n int, events int64) widget.Widget {
	phase := float64(n) / 30

	header := widgets.NewParagraph("cellgrid").
		WithStyle(d.title).
		WithAlignment(buffer.AlignCenter)

	body := widgets.Row(
		[]layout.Constraint{layout.Percentage(60), layout.Percentage(40)},
		d.world(phase),
		d.wave(phase),
	)

	return widgets.Column(
		[]layout.Constraint{layout.Length(1), layout.Min(0), layout.Length(4)},
		header,
		body,
		d.stats(n, events),
	)
}

func (d *demo) world(phase float64) widget.Widget {
	lon := math.Mod(phase*40, 360) - 180
	lat := 30 * math.Sin(phase)
	return widgets.NewCanvas(
		canvas.Bounds{Min: -180, Max: 180},
		canvas.Bounds{Min: -90, Max: 90},
		func(ctx *canvas.Context) {
			ctx.Draw(canvas.Map{Resolution: canvas.MapHigh, Color: style.Green})
			ctx.Layer()
			ctx.Draw(canvas.Circle{X: lon, Y: lat, Radius: 12, Color: style.Yellow})
			ctx.Print(lon+14, lat, buffer.NewLine(buffer.Styled("probe", style.New().Foreground(style.Yellow))))
		},
	).WithMarker(d.marker).WithBlock(widgets.Bordered().WithTitle("world"))
}

func (d *demo) wave(phase float64) widget.Widget {
	const samples = 120
	return widgets.NewCanvas(
		canvas.Bounds{Min: 0, Max: samples},
		canvas.Bounds{Min: -1.2, Max: 1.2},
		func(ctx *canvas.Context) {
			ctx.Draw(canvas.Line{X1: 0, Y1: 0, X2: samples, Y2: 0, Color: style.BrightBlack})
			coords := make([]geometry.FloatPosition, 0, samples)
			for i := 0; i <= samples; i++ {
				x := float64(i)
				coords = append(coords, geometry.FloatPosition{X: x, Y: math.Sin(x/10 + phase)})
			}
			ctx.Draw(canvas.Points{Coords: coords, Color: style.Cyan})
		},
	).WithMarker(d.marker).WithBlock(widgets.Bordered().WithTitle("wave"))
}

func (d *demo) stats(n int, events int64) widget.Widget {
	elapsed := time.Since(d.start).Truncate(time.Second)
	text := fmt.Sprintf("frame %d  elapsed %s  events %d\nmarker %s", n, elapsed, events, d.marker)
	return widgets.NewParagraph(text).
		WithBlock(widgets.Bordered().WithTitle("stats"))
}

// logLine is the line an inline demo prints above its viewport.
func (d *demo) logLine(n int) widget.Widget {
	stamp := d.start.Add(time.Duration(n) * time.Second / 30).Format("15:04:05")
	return widgets.NewParagraph(fmt.Sprintf("%s reached frame %d", stamp, n)).
		WithStyle(style.New().Foreground(style.BrightBlack))
}
