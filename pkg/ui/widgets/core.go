package widgets

import (
	"github.com/odvcencio/cellgrid/pkg/ui/canvas"
	"github.com/odvcencio/cellgrid/pkg/ui/layout"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// CoreName is the name the core extension registers under.
const CoreName = "core"

// CoreOptions configures the core extension.
type CoreOptions struct {
	// LayoutCacheSize bounds the grid split cache. Zero uses the default.
	LayoutCacheSize int
	// World is the map drawn by canvas Map shapes. Nil loads the embedded map.
	World *canvas.WorldMap
}

// Core renders the widgets of this package and paints every built-in shape.
// It owns the layout cache and the world map.
type Core struct {
	cache *layout.Cache
	world *canvas.WorldMap
}

// CoreExtension builds the core extension. The world map is decoded here,
// once, and shared by every render.
func CoreExtension(opts CoreOptions) (*Core, error) {
	cache, err := layout.NewCache(opts.LayoutCacheSize)
	if err != nil {
		return nil, err
	}
	world := opts.World
	if world == nil {
		world, err = canvas.LoadWorldMap()
		if err != nil {
			return nil, err
		}
	}
	return &Core{cache: cache, world: world}, nil
}

func (c *Core) Name() string { return CoreName }

func (c *Core) WidgetRenderers() []widget.Renderer {
	return []widget.Renderer{
		widget.For(renderBlock),
		widget.For(renderParagraph),
		widget.For(c.renderGrid),
		widget.For(renderClear),
		widget.For(renderCanvas),
	}
}

func (c *Core) ShapePainters() []canvas.ShapePainter {
	return canvas.DefaultShapePainters(c.world)
}

// LayoutCache returns the cache used by grids.
func (c *Core) LayoutCache() *layout.Cache {
	return c.cache
}

func (c *Core) renderGrid(ctx widget.RenderContext, g Grid) error {
	areas, err := c.cache.SplitN(g.Layout, ctx.Area, len(g.Children))
	if err != nil {
		return err
	}
	for i, child := range g.Children {
		if err := ctx.Render(child, areas[i]); err != nil {
			return err
		}
	}
	return nil
}
