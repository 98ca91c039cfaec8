package buffer

import (
	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// Update is one changed cell at an absolute position.
type Update struct {
	X, Y int
	Cell Cell
}

// Diff returns the cells of next that differ from b, in row-major order.
//
// A wide glyph hides the cells it covers, so when a glyph changes width the
// cells it used to cover are re-emitted too. A continuation cell covered by
// a wide glyph in next is skipped unless it changed.
func (b *Buffer) Diff(next *Buffer) ([]Update, error) {
	if b.area != next.area {
		return nil, apperrors.Newf(apperrors.ErrCodeShapeMismatch,
			"cannot diff %s against %s", b.area, next.area).
			WithContext("previous", b.area.String()).
			WithContext("next", next.area.String())
	}

	var updates []Update
	invalidated, toSkip := 0, 0
	width := b.area.Width
	for i := range next.cells {
		cur, prev := next.cells[i], b.cells[i]
		changed := cur != prev

		emit := changed || invalidated > 0
		if toSkip > 0 {
			emit = changed
		}
		if emit {
			updates = append(updates, Update{
				X:    b.area.X + i%width,
				Y:    b.area.Y + i/width,
				Cell: cur,
			})
		}

		wcur, wprev := cur.Width(), prev.Width()
		toSkip = max(0, wcur-1, toSkip-1)
		invalidated = max(0, max(wcur, wprev, invalidated)-1)
	}
	return updates, nil
}

// Apply writes updates into the buffer. Updates outside the buffer fail.
func (b *Buffer) Apply(updates []Update) error {
	for _, u := range updates {
		if err := b.Set(u.X, u.Y, u.Cell); err != nil {
			return err
		}
	}
	return nil
}
