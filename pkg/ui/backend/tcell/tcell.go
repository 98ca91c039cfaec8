// Package tcell provides a Backend implementation using tcell. The screen
// does its own double buffering, so actions are applied to the screen's cell
// grid and Flush calls Show.
package tcell

import (
	"context"

	"github.com/gdamore/tcell/v2"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen

	x, y          int
	style         tcell.Style
	cursorVisible bool
}

// New creates and initializes a tcell backend on the controlling terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to open terminal screen")
	}
	if err := screen.Init(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to initialize terminal screen")
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen creates a backend with an initialized screen (for testing).
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, style: tcell.StyleDefault, cursorVisible: true}
}

// Screen returns the underlying screen.
func (b *Backend) Screen() tcell.Screen {
	return b.screen
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (geometry.Area, error) {
	w, h := b.screen.Size()
	return geometry.Sized(w, h), nil
}

// Execute applies actions to the screen's back buffer.
func (b *Backend) Execute(actions ...backend.Action) error {
	for _, a := range actions {
		b.apply(a)
	}
	return nil
}

// Flush synchronizes the buffer to the terminal.
func (b *Backend) Flush() error {
	if b.cursorVisible {
		b.screen.ShowCursor(b.x, b.y)
	} else {
		b.screen.HideCursor()
	}
	b.screen.Show()
	return nil
}

// CursorPosition returns the tracked cursor. tcell owns the terminal, so
// there is nothing to query.
func (b *Backend) CursorPosition(ctx context.Context) (geometry.Position, error) {
	if err := ctx.Err(); err != nil {
		return geometry.Position{}, apperrors.Wrap(err, apperrors.ErrCodeCursorQueryTimeout,
			"cursor query cancelled")
	}
	return geometry.Position{X: b.x, Y: b.y}, nil
}

// Close restores the terminal.
func (b *Backend) Close() error {
	b.screen.Fini()
	return nil
}

func (b *Backend) apply(a backend.Action) {
	switch a := a.(type) {
	case backend.MoveTo:
		b.x, b.y = a.X, a.Y
	case backend.SetForeground:
		b.style = b.style.Foreground(convertColor(a.Color))
	case backend.SetBackground:
		b.style = b.style.Background(convertColor(a.Color))
	case backend.SetUnderlineColor:
		b.style = b.style.Underline(convertColor(a.Color))
	case backend.SetModifier:
		b.style = setModifier(b.style, a.Modifier, true)
	case backend.UnsetModifier:
		b.style = setModifier(b.style, a.Modifier, false)
	case backend.ResetStyle:
		b.style = tcell.StyleDefault
	case backend.Print:
		b.print(a.Symbol)
	case backend.Clear:
		b.clear(a.Kind)
	case backend.ScrollUp:
		b.scroll(a.Lines)
	case backend.ShowCursor:
		b.cursorVisible = true
	case backend.HideCursor:
		b.cursorVisible = false
	case backend.EnableMouseCapture:
		b.screen.EnableMouse()
	case backend.DisableMouseCapture:
		b.screen.DisableMouse()
	case backend.EnableRawMode, backend.DisableRawMode,
		backend.EnterAlternateScreen, backend.LeaveAlternateScreen:
		// The screen manages raw mode and the alternate screen itself.
	}
}

func (b *Backend) print(symbol string) {
	runes := []rune(symbol)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	b.screen.SetContent(b.x, b.y, runes[0], runes[1:], b.style)
	b.x += max(1, buffer.NewCell(symbol).Width())
}

func (b *Backend) clear(kind backend.ClearKind) {
	w, h := b.screen.Size()
	if kind == backend.ClearAll {
		b.screen.Clear()
		return
	}
	fromX, fromY, toY := b.x, b.y, b.y
	switch kind {
	case backend.ClearFromCursorDown:
		toY = h - 1
	case backend.ClearCurrentLine:
		fromX = 0
	}
	for y := fromY; y <= toY; y++ {
		start := 0
		if y == fromY {
			start = fromX
		}
		for x := start; x < w; x++ {
			b.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

// scroll moves every row up by n and blanks the rows uncovered at the bottom.
func (b *Backend) scroll(n int) {
	w, h := b.screen.Size()
	if n <= 0 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y+n < h {
				mainc, comb, st, _ := b.screen.GetContent(x, y+n)
				b.screen.SetContent(x, y, mainc, comb, st)
			} else {
				b.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
			}
		}
	}
}

// convertColor converts a style color to a tcell color.
func convertColor(c style.Color) tcell.Color {
	switch c.Kind() {
	case style.KindNamed, style.KindIndexed:
		return tcell.PaletteColor(int(c.Index()))
	case style.KindRGB:
		r, g, bl, _ := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(bl))
	default:
		return tcell.ColorDefault
	}
}

func setModifier(st tcell.Style, m style.Modifier, on bool) tcell.Style {
	switch m {
	case style.Bold:
		return st.Bold(on)
	case style.Dim:
		return st.Dim(on)
	case style.Italic:
		return st.Italic(on)
	case style.Underlined:
		return st.Underline(on)
	case style.SlowBlink, style.RapidBlink:
		return st.Blink(on)
	case style.Reversed:
		return st.Reverse(on)
	case style.CrossedOut:
		return st.StrikeThrough(on)
	}
	return st
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.Closer  = (*Backend)(nil)
)
