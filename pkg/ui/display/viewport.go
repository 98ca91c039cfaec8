package display

import (
	"fmt"

	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// ViewportKind selects how a Display maps onto the terminal.
type ViewportKind uint8

const (
	// KindFullscreen covers the whole terminal and follows its size.
	KindFullscreen ViewportKind = iota
	// KindFixed covers a fixed rectangle of the terminal.
	KindFixed
	// KindInline covers a band of rows anchored at the cursor row.
	KindInline
)

func (k ViewportKind) String() string {
	switch k {
	case KindFullscreen:
		return "fullscreen"
	case KindFixed:
		return "fixed"
	case KindInline:
		return "inline"
	default:
		return fmt.Sprintf("ViewportKind(%d)", uint8(k))
	}
}

// Viewport is the region of the terminal a Display draws to.
type Viewport struct {
	kind   ViewportKind
	area   geometry.Area
	height int
}

// Fullscreen returns a viewport covering the terminal.
func Fullscreen() Viewport {
	return Viewport{kind: KindFullscreen}
}

// Fixed returns a viewport covering area.
func Fixed(area geometry.Area) Viewport {
	return Viewport{kind: KindFixed, area: area}
}

// Inline returns a viewport of height rows starting at the cursor row.
func Inline(height int) Viewport {
	return Viewport{kind: KindInline, height: height}
}

func (v Viewport) Kind() ViewportKind  { return v.kind }
func (v Viewport) Area() geometry.Area { return v.area }
func (v Viewport) Height() int         { return v.height }

func (v Viewport) String() string {
	switch v.kind {
	case KindFixed:
		return fmt.Sprintf("fixed(%s)", v.area)
	case KindInline:
		return fmt.Sprintf("inline(%d)", v.height)
	default:
		return v.kind.String()
	}
}
