// Package ansi provides a Backend that writes ANSI escape sequences to an
// io.Writer. Colors are degraded to the output's termenv profile and raw mode
// is switched through a Terminal.
package ansi

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/muesli/termenv"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// DefaultQueryTimeout bounds a cursor query whose context has no deadline.
const DefaultQueryTimeout = 2 * time.Second

var cursorReport = regexp.MustCompile(`\x1b\[(\d+);(\d+)R`)

// Backend writes escape sequences for each action.
type Backend struct {
	out      *bufio.Writer
	in       io.Reader
	terminal Terminal
	profile  termenv.Profile
	timeout  time.Duration

	restore func() error

	readOnce sync.Once
	input    chan []byte
	pending  []byte
}

// Option configures a Backend.
type Option func(*Backend)

// WithTerminal sets the terminal used for raw mode and size.
func WithTerminal(t Terminal) Option {
	return func(b *Backend) { b.terminal = t }
}

// WithProfile sets the color profile colors are degraded to.
func WithProfile(p termenv.Profile) Option {
	return func(b *Backend) { b.profile = p }
}

// WithQueryTimeout sets the cursor query deadline used when the caller's
// context has none.
func WithQueryTimeout(d time.Duration) Option {
	return func(b *Backend) { b.timeout = d }
}

// New creates a backend writing to out and reading terminal replies from in.
// Without a Terminal, raw mode is a no-op and Size fails.
func New(in io.Reader, out io.Writer, opts ...Option) *Backend {
	b := &Backend{
		out:     bufio.NewWriterSize(out, 32*1024),
		in:      in,
		profile: termenv.TrueColor,
		timeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromFiles creates a backend on a tty, detecting the color profile of out.
func NewFromFiles(in, out *os.File, opts ...Option) *Backend {
	base := []Option{
		WithTerminal(FileTerminal{In: in, Out: out}),
		WithProfile(termenv.NewOutput(out).ColorProfile()),
	}
	return New(in, out, append(base, opts...)...)
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (geometry.Area, error) {
	if b.terminal == nil {
		return geometry.Area{}, apperrors.New(apperrors.ErrCodeBackendIO, "no terminal to query for size")
	}
	w, h, err := b.terminal.Size()
	if err != nil {
		return geometry.Area{}, apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to read terminal size")
	}
	return geometry.Sized(w, h), nil
}

// Execute writes the escape sequences for actions into the output buffer.
func (b *Backend) Execute(actions ...backend.Action) error {
	for _, a := range actions {
		if err := b.write(a); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered output.
func (b *Backend) Flush() error {
	if err := b.out.Flush(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to flush terminal output")
	}
	return nil
}

// RawMode reports whether the backend enabled raw mode.
func (b *Backend) RawMode() bool {
	return b.restore != nil
}

// CursorPosition writes a cursor position report request and waits for the
// reply. Raw mode is enabled for the round trip when it is not already on,
// and restored on every return path.
func (b *Backend) CursorPosition(ctx context.Context) (pos geometry.Position, err error) {
	if _, ok := ctx.Deadline(); !ok && b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	if b.restore == nil && b.terminal != nil {
		restore, rerr := b.terminal.MakeRaw()
		if rerr != nil {
			return pos, apperrors.Wrap(rerr, apperrors.ErrCodeBackendIO, "failed to enable raw mode for cursor query")
		}
		defer func() {
			if rerr := restore(); rerr != nil && err == nil {
				err = apperrors.Wrap(rerr, apperrors.ErrCodeBackendIO, "failed to restore terminal mode")
			}
		}()
	}

	if _, err := b.out.WriteString(seqQueryCursor); err != nil {
		return pos, apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to write cursor query")
	}
	if err := b.Flush(); err != nil {
		return pos, err
	}
	return b.readCursorReport(ctx)
}

// Close restores the terminal mode if the backend changed it.
func (b *Backend) Close() error {
	if err := b.Flush(); err != nil {
		return err
	}
	return b.disableRaw()
}

func (b *Backend) readCursorReport(ctx context.Context) (geometry.Position, error) {
	b.startReader()
	for {
		if m := cursorReport.FindSubmatchIndex(b.pending); m != nil {
			row, _ := strconv.Atoi(string(b.pending[m[2]:m[3]]))
			col, _ := strconv.Atoi(string(b.pending[m[4]:m[5]]))
			b.pending = append(b.pending[:0], b.pending[m[1]:]...)
			return geometry.Position{X: col - 1, Y: row - 1}, nil
		}
		select {
		case <-ctx.Done():
			return geometry.Position{}, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeCursorQueryTimeout,
				"terminal did not report the cursor position")
		case chunk, ok := <-b.input:
			if !ok {
				return geometry.Position{}, apperrors.New(apperrors.ErrCodeBackendIO,
					"terminal input closed before the cursor report")
			}
			b.pending = append(b.pending, chunk...)
		}
	}
}

// startReader reads terminal input on one goroutine for the life of the
// backend. A read cannot be cancelled, so a query that times out leaves the
// reader waiting for the next one.
func (b *Backend) startReader() {
	b.readOnce.Do(func() {
		b.input = make(chan []byte, 16)
		if b.in == nil {
			close(b.input)
			return
		}
		go func() {
			defer close(b.input)
			buf := make([]byte, 256)
			for {
				n, err := b.in.Read(buf)
				if n > 0 {
					b.input <- append([]byte(nil), buf[:n]...)
				}
				if err != nil {
					return
				}
			}
		}()
	})
}

func (b *Backend) enableRaw() error {
	if b.restore != nil || b.terminal == nil {
		return nil
	}
	restore, err := b.terminal.MakeRaw()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to enable raw mode")
	}
	b.restore = restore
	return nil
}

func (b *Backend) disableRaw() error {
	if b.restore == nil {
		return nil
	}
	restore := b.restore
	b.restore = nil
	if err := restore(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to restore terminal mode")
	}
	return nil
}

func (b *Backend) write(a backend.Action) error {
	var seq string
	switch a := a.(type) {
	case backend.MoveTo:
		seq = moveTo(a.X, a.Y)
	case backend.SetForeground:
		if p := colorParams(b.profile, a.Color, false); p != "" {
			seq = sgr(p)
		}
	case backend.SetBackground:
		if p := colorParams(b.profile, a.Color, true); p != "" {
			seq = sgr(p)
		}
	case backend.SetUnderlineColor:
		if p := underlineParams(b.profile, a.Color); p != "" {
			seq = sgr(p)
		}
	case backend.SetModifier:
		if code, ok := setModifierCodes[a.Modifier]; ok {
			seq = sgr(code)
		}
	case backend.UnsetModifier:
		if code, ok := unsetModifierCodes[a.Modifier]; ok {
			seq = sgr(code)
		}
	case backend.ResetStyle:
		seq = seqReset
	case backend.Print:
		seq = a.Symbol
	case backend.Clear:
		seq = csi + clearCodes[a.Kind]
	case backend.ScrollUp:
		if a.Lines > 0 {
			seq = csi + strconv.Itoa(a.Lines) + "S"
		}
	case backend.EnableRawMode:
		return b.enableRaw()
	case backend.DisableRawMode:
		return b.disableRaw()
	case backend.EnterAlternateScreen:
		seq = seqAltScreenEnter
	case backend.LeaveAlternateScreen:
		seq = seqAltScreenExit
	case backend.ShowCursor:
		seq = seqShowCursor
	case backend.HideCursor:
		seq = seqHideCursor
	case backend.EnableMouseCapture:
		seq = seqMouseOn
	case backend.DisableMouseCapture:
		seq = seqMouseOff
	}
	if seq == "" {
		return nil
	}
	if _, err := b.out.WriteString(seq); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to write terminal output")
	}
	return nil
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.Closer  = (*Backend)(nil)
)
