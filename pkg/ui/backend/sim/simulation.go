// Package sim provides a simulation backend for testing. It records every
// action it executes and applies them to an in-memory character grid, so
// tests can assert on both the escape-level wire contract and what a
// terminal would show.
package sim

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Backend is an in-memory terminal.
type Backend struct {
	mu sync.Mutex

	width, height int
	cells         []buffer.Cell
	cursor        geometry.Position
	pen           buffer.Cell

	cursorVisible bool
	rawMode       bool
	altScreen     bool
	mouseCapture  bool

	actions  []backend.Action
	flushes  int
	queryErr error
}

// New creates a simulation backend with the given dimensions.
func New(width, height int) *Backend {
	b := &Backend{width: width, height: height, cursorVisible: true}
	b.cells = blank(width * height)
	b.pen = buffer.EmptyCell()
	return b
}

func blank(n int) []buffer.Cell {
	cells := make([]buffer.Cell, n)
	for i := range cells {
		cells[i] = buffer.EmptyCell()
	}
	return cells
}

// Size returns the simulated terminal size.
func (s *Backend) Size() (geometry.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return geometry.Sized(s.width, s.height), nil
}

// Execute records and applies actions.
func (s *Backend) Execute(actions ...backend.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.actions = append(s.actions, a)
		s.apply(a)
	}
	return nil
}

// Flush counts flushes; output is applied immediately.
func (s *Backend) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

// CursorPosition reports the simulated cursor, or the error set with
// FailCursorQuery. An expired ctx fails like a terminal that never answers.
func (s *Backend) CursorPosition(ctx context.Context) (geometry.Position, error) {
	if err := ctx.Err(); err != nil {
		return geometry.Position{}, apperrors.Wrap(err, apperrors.ErrCodeCursorQueryTimeout,
			"terminal did not report the cursor position")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return geometry.Position{}, s.queryErr
	}
	return s.cursor, nil
}

// Resize changes the simulation screen size, keeping the overlapping cells.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := blank(width * height)
	for y := 0; y < min(height, s.height); y++ {
		for x := 0; x < min(width, s.width); x++ {
			cells[y*width+x] = s.cells[y*s.width+x]
		}
	}
	s.width, s.height, s.cells = width, height, cells
	s.cursor.X = min(s.cursor.X, max(0, width-1))
	s.cursor.Y = min(s.cursor.Y, max(0, height-1))
}

// SetCursor moves the simulated cursor without recording an action.
func (s *Backend) SetCursor(p geometry.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = p
}

// FailCursorQuery makes CursorPosition return err. Nil restores answers.
func (s *Backend) FailCursorQuery(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryErr = err
}

// Actions returns the actions recorded since the last ResetActions.
func (s *Backend) Actions() []backend.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backend.Action(nil), s.actions...)
}

// ResetActions forgets the recorded actions.
func (s *Backend) ResetActions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = nil
}

// Flushes returns the number of Flush calls.
func (s *Backend) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// Cursor returns the cursor position and whether it is shown.
func (s *Backend) Cursor() (geometry.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.cursorVisible
}

// RawMode reports whether raw mode is enabled.
func (s *Backend) RawMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawMode
}

// AlternateScreen reports whether the alternate screen is active.
func (s *Backend) AlternateScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.altScreen
}

// MouseCapture reports whether mouse capture is enabled.
func (s *Backend) MouseCapture() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mouseCapture
}

// Lines returns each row of the screen. Cells hidden behind a wide glyph are
// left out.
func (s *Backend) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region(0, 0, s.width, s.height)
}

// Capture returns the screen as newline-separated rows.
func (s *Backend) Capture() string {
	return strings.Join(s.Lines(), "\n")
}

// CaptureCell returns one cell of the screen.
func (s *Backend) CaptureCell(x, y int) buffer.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return buffer.EmptyCell()
	}
	return s.cells[y*s.width+x]
}

// CaptureRegion returns a rectangle of the screen as newline-separated rows.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.region(x, y, w, h), "\n")
}

// FindText searches for text on the screen and returns its position, or
// (-1, -1).
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range s.Lines() {
		if i := strings.Index(line, text); i >= 0 {
			return buffer.Raw(line[:i]).Width(), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

func (s *Backend) region(x0, y0, w, h int) []string {
	lines := make([]string, 0, h)
	for y := y0; y < y0+h && y < s.height; y++ {
		var sb strings.Builder
		skip := 0
		for x := x0; x < x0+w && x < s.width; x++ {
			if skip > 0 {
				skip--
				continue
			}
			c := s.cells[y*s.width+x]
			sb.WriteString(c.Symbol)
			skip = max(0, c.Width()-1)
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func (s *Backend) apply(a backend.Action) {
	switch a := a.(type) {
	case backend.MoveTo:
		s.cursor = geometry.Position{
			X: min(max(0, a.X), max(0, s.width-1)),
			Y: min(max(0, a.Y), max(0, s.height-1)),
		}
	case backend.SetForeground:
		s.pen.Fg = inherit(a.Color)
	case backend.SetBackground:
		s.pen.Bg = inherit(a.Color)
	case backend.SetUnderlineColor:
		s.pen.Underline = inherit(a.Color)
	case backend.SetModifier:
		s.pen.Modifier |= a.Modifier
	case backend.UnsetModifier:
		s.pen.Modifier &^= a.Modifier
		if a.Modifier&(style.Bold|style.Dim) != 0 {
			s.pen.Modifier &^= style.Bold | style.Dim
		}
	case backend.ResetStyle:
		s.pen = buffer.EmptyCell()
	case backend.Print:
		s.print(a.Symbol)
	case backend.Clear:
		s.clear(a.Kind)
	case backend.ScrollUp:
		s.scroll(a.Lines)
	case backend.EnableRawMode:
		s.rawMode = true
	case backend.DisableRawMode:
		s.rawMode = false
	case backend.EnterAlternateScreen:
		s.altScreen = true
	case backend.LeaveAlternateScreen:
		s.altScreen = false
	case backend.ShowCursor:
		s.cursorVisible = true
	case backend.HideCursor:
		s.cursorVisible = false
	case backend.EnableMouseCapture:
		s.mouseCapture = true
	case backend.DisableMouseCapture:
		s.mouseCapture = false
	}
}

// inherit stores the terminal default the way an empty buffer cell does.
func inherit(c style.Color) style.Color {
	if c == style.Reset {
		return style.None
	}
	return c
}

// print writes at the cursor, wrapping at the right edge and scrolling at
// the bottom like a terminal with auto-wrap on.
func (s *Backend) print(symbol string) {
	if s.width == 0 || s.height == 0 {
		return
	}
	c := s.pen
	c.Symbol = symbol
	w := max(1, c.Width())
	if s.cursor.X+w > s.width {
		s.cursor.X = 0
		s.cursor.Y++
	}
	if s.cursor.Y >= s.height {
		s.scroll(s.cursor.Y - s.height + 1)
		s.cursor.Y = s.height - 1
	}
	row := s.cursor.Y * s.width
	s.cells[row+s.cursor.X] = c
	for i := 1; i < w; i++ {
		s.cells[row+s.cursor.X+i] = buffer.EmptyCell()
	}
	s.cursor.X += w
}

func (s *Backend) clear(kind backend.ClearKind) {
	start, end := 0, len(s.cells)
	row := s.cursor.Y * s.width
	switch kind {
	case backend.ClearFromCursorDown:
		start = row + s.cursor.X
	case backend.ClearCurrentLine:
		start, end = row, row+s.width
	case backend.ClearUntilNewLine:
		start, end = row+s.cursor.X, row+s.width
	}
	for i := max(0, start); i < min(end, len(s.cells)); i++ {
		s.cells[i] = buffer.EmptyCell()
	}
}

func (s *Backend) scroll(n int) {
	if n <= 0 {
		return
	}
	n = min(n, s.height)
	copy(s.cells, s.cells[n*s.width:])
	for i := (s.height - n) * s.width; i < len(s.cells); i++ {
		s.cells[i] = buffer.EmptyCell()
	}
}

var _ backend.Backend = (*Backend)(nil)
