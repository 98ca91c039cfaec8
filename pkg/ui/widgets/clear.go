package widgets

import (
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// Clear blanks its area so widgets below it do not show through.
type Clear struct{}

func renderClear(ctx widget.RenderContext, _ Clear) error {
	ctx.Buffer.Fill(ctx.Area, buffer.EmptyCell())
	return nil
}
