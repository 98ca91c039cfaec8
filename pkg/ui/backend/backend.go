// Package backend defines the terminal backend interface for the display.
// The display never writes escape sequences itself: it turns each frame's
// diff into an ordered list of Actions and hands them to a Backend. Swapping
// backends (ANSI writer, tcell screen, in-memory simulation) changes nothing
// above this package, which is what makes golden-frame tests possible.
package backend

import (
	"context"

	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// Backend is the terminal abstraction layer.
type Backend interface {
	// Size returns the terminal dimensions as an area at the origin.
	Size() (geometry.Area, error)

	// Execute queues actions in order. Output may be buffered until Flush.
	Execute(actions ...Action) error

	// Flush writes queued output to the terminal.
	Flush() error

	// CursorPosition asks the terminal where the cursor is. It fails with
	// CURSOR_QUERY_TIMEOUT when ctx expires first.
	CursorPosition(ctx context.Context) (geometry.Position, error)
}

// Closer is implemented by backends that hold terminal resources.
type Closer interface {
	Close() error
}
