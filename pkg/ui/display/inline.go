package display

import (
	"context"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/telemetry"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// anchorInline places an inline viewport at the cursor row, scrolling the
// terminal up when the viewport would run past the bottom.
func (d *Display) anchorInline(ctx context.Context, size geometry.Area) (geometry.Area, error) {
	height := min(d.viewport.height, size.Height)
	pos, err := d.CursorPosition(ctx)
	if err != nil {
		return geometry.Area{}, err
	}

	row := pos.Y
	if overflow := row + height - size.Height; overflow > 0 {
		if err := d.send(backend.ScrollUp{Lines: overflow}); err != nil {
			return geometry.Area{}, err
		}
		row -= overflow
	}
	return geometry.Rect(0, max(0, row), size.Width, height), nil
}

// InsertBefore draws w into height new rows directly above an inline
// viewport. Rows that do not fit scroll into the terminal's history and the
// viewport moves down, so the next Draw repaints it below the new rows.
func (d *Display) InsertBefore(height int, w widget.Widget) error {
	if d.viewport.kind != KindInline {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput,
			"insert before needs an inline viewport, have %s", d.viewport)
	}
	if height <= 0 {
		return nil
	}
	if err := d.Autoresize(); err != nil {
		return err
	}
	size := d.size
	if size.Height == 0 || size.Width == 0 {
		return nil
	}

	lines := buffer.Empty(geometry.Sized(size.Width, height))
	if err := d.registry.Render(lines, lines.Area(), w); err != nil {
		return err
	}

	actions := []backend.Action{
		backend.MoveTo{X: 0, Y: d.area.Y},
		backend.Clear{Kind: backend.ClearFromCursorDown},
	}
	y := d.area.Y
	for row := 0; row < height; row++ {
		if y >= size.Height {
			actions = append(actions, backend.ScrollUp{Lines: 1})
			y = size.Height - 1
		}
		actions = append(actions, backend.Translate(rowUpdates(lines, row, y))...)
		y++
	}
	if overflow := y + d.area.Height - size.Height; overflow > 0 {
		actions = append(actions, backend.ScrollUp{Lines: overflow})
		y -= overflow
	}
	if err := d.send(actions...); err != nil {
		return err
	}

	from := d.area
	d.setArea(geometry.Rect(0, max(0, y), size.Width, d.area.Height))
	d.logger.Debug("inserted before viewport", "lines", height, "from", from.String(), "to", d.area.String())
	d.metrics.ObserveInsert(height)
	d.publish(telemetry.EventInserted, map[string]any{"lines": height})
	return nil
}

// rowUpdates returns the non-blank cells of src's row, placed on terminal
// row y.
func rowUpdates(src *buffer.Buffer, row, y int) []buffer.Update {
	width := src.Area().Width
	blank := buffer.Empty(geometry.Rect(0, y, width, 1))
	target := buffer.Empty(geometry.Rect(0, y, width, 1))
	for x := 0; x < width; x++ {
		*target.At(x, y) = *src.At(x, row)
	}
	updates, _ := blank.Diff(target)
	return updates
}
