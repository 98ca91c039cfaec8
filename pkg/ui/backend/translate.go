package backend

import (
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// Translate turns one frame of updates into actions.
//
// The cursor is moved only when it is not already at the next update, and
// style changes are emitted only when the pen changes. Updates that land on
// cells hidden by a wide glyph printed earlier in the frame are dropped. A
// non-empty frame ends with a single ResetStyle so the terminal is left with
// the default pen.
func Translate(updates []buffer.Update) []Action {
	var actions []Action
	pen := DefaultPen()
	cursor := geometry.Position{X: -1, Y: -1}
	covered := geometry.Position{X: -1, Y: -1}

	for _, u := range updates {
		if u.Y == covered.Y && u.X < covered.X {
			continue
		}
		if cursor.X != u.X || cursor.Y != u.Y {
			actions = append(actions, MoveTo{X: u.X, Y: u.Y})
		}

		next := PenOf(u.Cell)
		actions = append(actions, pen.Transition(next)...)
		pen = next

		symbol := u.Cell.Symbol
		if symbol == "" {
			symbol = " "
		}
		actions = append(actions, Print{Symbol: symbol})

		w := max(1, u.Cell.Width())
		cursor = geometry.Position{X: u.X + w, Y: u.Y}
		if w > 1 {
			covered = cursor
		}
	}

	if len(actions) > 0 {
		actions = append(actions, ResetStyle{})
	}
	return actions
}
