package backend

import (
	"fmt"

	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Action is one terminal primitive. The set is closed: only the types in
// this file implement it.
type Action interface {
	fmt.Stringer
	action()
}

// ClearKind selects the region erased by Clear.
type ClearKind uint8

const (
	ClearAll ClearKind = iota
	ClearFromCursorDown
	ClearCurrentLine
	ClearUntilNewLine
)

func (k ClearKind) String() string {
	switch k {
	case ClearAll:
		return "All"
	case ClearFromCursorDown:
		return "FromCursorDown"
	case ClearCurrentLine:
		return "CurrentLine"
	case ClearUntilNewLine:
		return "UntilNewLine"
	}
	return "Unknown"
}

type (
	// MoveTo places the cursor at a zero-based column and row.
	MoveTo struct{ X, Y int }

	// SetForeground changes the pen foreground. Reset selects the default.
	SetForeground struct{ Color style.Color }

	// SetBackground changes the pen background.
	SetBackground struct{ Color style.Color }

	// SetUnderlineColor changes the underline color.
	SetUnderlineColor struct{ Color style.Color }

	// SetModifier turns one modifier on.
	SetModifier struct{ Modifier style.Modifier }

	// UnsetModifier turns one modifier off.
	UnsetModifier struct{ Modifier style.Modifier }

	// ResetStyle restores default colors and clears every modifier.
	ResetStyle struct{}

	// Print writes a grapheme at the cursor and advances it by its width.
	Print struct{ Symbol string }

	// Clear erases part of the screen without moving the cursor.
	Clear struct{ Kind ClearKind }

	// ScrollUp scrolls the whole screen up, inserting blank rows at the bottom.
	ScrollUp struct{ Lines int }

	EnableRawMode        struct{}
	DisableRawMode       struct{}
	EnterAlternateScreen struct{}
	LeaveAlternateScreen struct{}
	ShowCursor           struct{}
	HideCursor           struct{}
	EnableMouseCapture   struct{}
	DisableMouseCapture  struct{}
)

func (MoveTo) action()               {}
func (SetForeground) action()        {}
func (SetBackground) action()        {}
func (SetUnderlineColor) action()    {}
func (SetModifier) action()          {}
func (UnsetModifier) action()        {}
func (ResetStyle) action()           {}
func (Print) action()                {}
func (Clear) action()                {}
func (ScrollUp) action()             {}
func (EnableRawMode) action()        {}
func (DisableRawMode) action()       {}
func (EnterAlternateScreen) action() {}
func (LeaveAlternateScreen) action() {}
func (ShowCursor) action()           {}
func (HideCursor) action()           {}
func (EnableMouseCapture) action()   {}
func (DisableMouseCapture) action()  {}

func (a MoveTo) String() string             { return fmt.Sprintf("MoveTo(%d, %d)", a.X, a.Y) }
func (a SetForeground) String() string      { return fmt.Sprintf("SetForeground(%s)", a.Color) }
func (a SetBackground) String() string      { return fmt.Sprintf("SetBackground(%s)", a.Color) }
func (a SetUnderlineColor) String() string  { return fmt.Sprintf("SetUnderlineColor(%s)", a.Color) }
func (a SetModifier) String() string        { return fmt.Sprintf("SetModifier(%s)", a.Modifier) }
func (a UnsetModifier) String() string      { return fmt.Sprintf("UnsetModifier(%s)", a.Modifier) }
func (ResetStyle) String() string           { return "ResetStyle" }
func (a Print) String() string              { return fmt.Sprintf("Print(%q)", a.Symbol) }
func (a Clear) String() string              { return fmt.Sprintf("Clear(%s)", a.Kind) }
func (a ScrollUp) String() string           { return fmt.Sprintf("ScrollUp(%d)", a.Lines) }
func (EnableRawMode) String() string        { return "EnableRawMode" }
func (DisableRawMode) String() string       { return "DisableRawMode" }
func (EnterAlternateScreen) String() string { return "EnterAlternateScreen" }
func (LeaveAlternateScreen) String() string { return "LeaveAlternateScreen" }
func (ShowCursor) String() string           { return "ShowCursor" }
func (HideCursor) String() string           { return "HideCursor" }
func (EnableMouseCapture) String() string   { return "EnableMouseCapture" }
func (DisableMouseCapture) String() string  { return "DisableMouseCapture" }
