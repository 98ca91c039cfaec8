// Package display drives a backend from widget renders. A Display owns two
// buffers covering its viewport: each draw renders into the current one,
// sends the difference from the previous one to the backend, then swaps them.
//
// A Display is single-writer. Draw and the other methods must not be called
// concurrently.
package display

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/logging"
	"github.com/odvcencio/cellgrid/pkg/telemetry"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// Display renders widgets to a terminal backend.
type Display struct {
	backend  backend.Backend
	registry *widget.Registry
	viewport Viewport

	// size is the last known terminal size, area the viewport's place in it.
	size     geometry.Area
	area     geometry.Area
	current  *buffer.Buffer
	previous *buffer.Buffer
	frame    uint64

	cursor       geometry.Position
	cursorSet    bool
	hideCursor   bool
	shownCursor  bool
	queryTimeout time.Duration

	altScreen    bool
	rawMode      bool
	mouseCapture bool
	started      bool
	closed       bool

	logger  *logging.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	hub     *telemetry.Hub
}

// CompletedFrame describes a drawn frame.
type CompletedFrame struct {
	Number  uint64
	Area    geometry.Area
	Updates int
	Actions int

	// Buffer is the drawn frame. It is reused by the next draw.
	Buffer *buffer.Buffer
}

// Viewport returns the configured viewport.
func (d *Display) Viewport() Viewport {
	return d.viewport
}

// Area returns the region of the terminal the display draws to.
func (d *Display) Area() geometry.Area {
	return d.area
}

// Size returns the last known terminal size.
func (d *Display) Size() geometry.Area {
	return d.size
}

// Buffer returns the last drawn frame. It must not be retained across draws.
func (d *Display) Buffer() *buffer.Buffer {
	return d.previous
}

// Registry returns the renderer chain widgets are drawn with.
func (d *Display) Registry() *widget.Registry {
	return d.registry
}

// Frames returns the number of frames drawn.
func (d *Display) Frames() uint64 {
	return d.frame
}

// Start prepares the terminal: raw mode, alternate screen, mouse capture and
// cursor visibility as configured.
func (d *Display) Start() error {
	if d.started {
		return nil
	}
	var actions []backend.Action
	if d.rawMode {
		actions = append(actions, backend.EnableRawMode{})
	}
	if d.altScreen {
		actions = append(actions, backend.EnterAlternateScreen{}, backend.Clear{Kind: backend.ClearAll})
	}
	if d.mouseCapture {
		actions = append(actions, backend.EnableMouseCapture{})
	}
	if d.hideCursor {
		actions = append(actions, backend.HideCursor{})
		d.shownCursor = false
	}
	if err := d.send(actions...); err != nil {
		return err
	}
	d.started = true
	d.logger.Info("display started", "viewport", d.viewport.String(), "area", d.area.String())
	d.publish(telemetry.EventDisplayStarted, nil)
	return nil
}

// Close restores the terminal and closes the backend if it can be closed.
// Inline displays leave the cursor on the row below the viewport.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var actions []backend.Action
	if d.viewport.kind == KindInline {
		actions = append(actions, backend.MoveTo{X: 0, Y: min(d.area.Bottom(), max(0, d.size.Height-1))})
	}
	if !d.shownCursor {
		actions = append(actions, backend.ShowCursor{})
		d.shownCursor = true
	}
	if d.started {
		if d.mouseCapture {
			actions = append(actions, backend.DisableMouseCapture{})
		}
		if d.altScreen {
			actions = append(actions, backend.LeaveAlternateScreen{})
		}
		if d.rawMode {
			actions = append(actions, backend.DisableRawMode{})
		}
	}
	err := d.send(actions...)

	if closer, ok := d.backend.(backend.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = apperrors.Wrap(cerr, apperrors.ErrCodeBackendIO, "failed to close backend")
		}
	}
	d.logger.Info("display closed", "frames", d.frame)
	d.publish(telemetry.EventDisplayClosed, nil)
	return err
}

// Draw renders w into the viewport and flushes the changed cells.
func (d *Display) Draw(w widget.Widget) (CompletedFrame, error) {
	return d.DrawContext(context.Background(), w)
}

// DrawContext is Draw with a context for tracing.
func (d *Display) DrawContext(ctx context.Context, w widget.Widget) (CompletedFrame, error) {
	start := time.Now()
	number := d.frame + 1
	ctx, span := telemetry.StartSpan(ctx, d.tracer, "display.draw", trace.WithAttributes(
		telemetry.AttrViewport.String(d.viewport.kind.String()),
		telemetry.AttrFrame.Int64(int64(number)),
	))
	defer span.End()

	frame, err := d.draw(ctx, number, w)
	if err != nil {
		telemetry.RecordError(span, err)
		d.logger.DrawFailed(number, err)
		d.metrics.ObserveDrawError(err)
		d.publish(telemetry.EventFrameFailed, map[string]any{"error": err.Error()})
		return CompletedFrame{}, err
	}

	span.SetAttributes(
		telemetry.AttrAreaWidth.Int(frame.Area.Width),
		telemetry.AttrAreaHeight.Int(frame.Area.Height),
		telemetry.AttrUpdates.Int(frame.Updates),
		telemetry.AttrActions.Int(frame.Actions),
	)
	elapsed := time.Since(start)
	d.logger.FrameDrawn(frame.Number, frame.Updates, frame.Actions, elapsed)
	d.metrics.ObserveFrame(d.viewport.kind.String(), frame.Updates, frame.Actions, elapsed)
	d.publish(telemetry.EventFrameDrawn, map[string]any{"updates": frame.Updates, "actions": frame.Actions})
	return frame, nil
}

func (d *Display) draw(ctx context.Context, number uint64, w widget.Widget) (CompletedFrame, error) {
	if err := d.Autoresize(); err != nil {
		return CompletedFrame{}, err
	}

	_, render := telemetry.StartSpan(ctx, d.tracer, "display.render")
	d.current.Reset()
	err := d.registry.Render(d.current, d.area, w)
	telemetry.RecordError(render, err)
	render.End()
	if err != nil {
		return CompletedFrame{}, err
	}

	updates, err := d.previous.Diff(d.current)
	if err != nil {
		return CompletedFrame{}, err
	}
	actions := backend.Translate(updates)
	actions = append(actions, d.cursorActions()...)
	if err := d.send(actions...); err != nil {
		return CompletedFrame{}, err
	}

	d.previous, d.current = d.current, d.previous
	d.frame = number
	return CompletedFrame{
		Number:  number,
		Area:    d.area,
		Updates: len(updates),
		Actions: len(actions),
		Buffer:  d.previous,
	}, nil
}

// Autoresize follows the terminal size for fullscreen and inline viewports.
// Fixed viewports only change through Resize.
func (d *Display) Autoresize() error {
	if d.viewport.kind == KindFixed {
		return nil
	}
	size, err := d.terminalSize()
	if err != nil {
		return err
	}
	if size == d.size {
		return nil
	}
	d.size = size

	area := size
	if d.viewport.kind == KindInline {
		height := min(d.viewport.height, size.Height)
		y := min(d.area.Y, max(0, size.Height-height))
		area = geometry.Rect(0, y, size.Width, height)
	}
	return d.Resize(area)
}

// Resize moves the viewport to area, reallocates both buffers and clears the
// region so the next draw repaints everything.
func (d *Display) Resize(area geometry.Area) error {
	if area.X < 0 || area.Y < 0 || area.Width < 0 || area.Height < 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidGeometry, "invalid viewport area %s", area)
	}
	from := d.area
	if d.viewport.kind == KindFixed {
		d.viewport.area = area
	}
	d.setArea(area)
	if err := d.Clear(); err != nil {
		return err
	}
	d.logger.Resized(from, area)
	d.metrics.ObserveResize(d.viewport.kind.String())
	d.publish(telemetry.EventResized, map[string]any{"from": from.String(), "to": area.String()})
	return nil
}

// Clear blanks the viewport on the terminal and resets the previous frame
// so the next draw repaints every cell.
func (d *Display) Clear() error {
	var actions []backend.Action
	switch d.viewport.kind {
	case KindFullscreen:
		actions = []backend.Action{backend.Clear{Kind: backend.ClearAll}}
	case KindInline:
		actions = []backend.Action{
			backend.MoveTo{X: 0, Y: d.area.Y},
			backend.Clear{Kind: backend.ClearFromCursorDown},
		}
	case KindFixed:
		blank := buffer.Empty(d.area)
		actions = backend.Translate(blankUpdates(blank))
	}
	if err := d.send(actions...); err != nil {
		return err
	}
	d.previous.Reset()
	d.publish(telemetry.EventCleared, nil)
	return nil
}

// SetCursor places the cursor after each frame and moves it now.
func (d *Display) SetCursor(p geometry.Position) error {
	d.cursor, d.cursorSet = p, true
	return d.send(backend.MoveTo{X: p.X, Y: p.Y})
}

// ShowCursor makes the cursor visible.
func (d *Display) ShowCursor() error {
	d.hideCursor = false
	d.shownCursor = true
	return d.send(backend.ShowCursor{})
}

// HideCursor hides the cursor.
func (d *Display) HideCursor() error {
	d.hideCursor = true
	d.shownCursor = false
	return d.send(backend.HideCursor{})
}

// CursorPosition asks the terminal where the cursor is. A ctx without a
// deadline is bounded by the configured cursor query timeout.
func (d *Display) CursorPosition(ctx context.Context) (geometry.Position, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.queryTimeout)
		defer cancel()
	}
	pos, err := d.backend.CursorPosition(ctx)
	d.metrics.ObserveCursorQuery(err)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeInternal {
			err = apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "cursor query failed")
		}
		d.logger.CursorQueryFailed(err)
		return geometry.Position{}, err
	}
	return pos, nil
}

// cursorActions places the cursor after a frame.
func (d *Display) cursorActions() []backend.Action {
	var actions []backend.Action
	if d.hideCursor {
		if d.shownCursor {
			actions = append(actions, backend.HideCursor{})
			d.shownCursor = false
		}
		return actions
	}
	if d.cursorSet {
		actions = append(actions, backend.MoveTo{X: d.cursor.X, Y: d.cursor.Y})
	}
	if !d.shownCursor {
		actions = append(actions, backend.ShowCursor{})
		d.shownCursor = true
	}
	return actions
}

func (d *Display) setArea(area geometry.Area) {
	d.area = area
	d.current = buffer.Empty(area)
	d.previous = buffer.Empty(area)
}

func (d *Display) terminalSize() (geometry.Area, error) {
	size, err := d.backend.Size()
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeInternal {
			err = apperrors.Wrap(err, apperrors.ErrCodeBackendIO, "failed to read terminal size")
		}
		return geometry.Area{}, err
	}
	return size, nil
}

// send executes actions and flushes them. An empty batch is not flushed.
func (d *Display) send(actions ...backend.Action) error {
	if len(actions) == 0 {
		return nil
	}
	if err := d.backend.Execute(actions...); err != nil {
		return wrapBackend(err, "failed to execute actions")
	}
	if err := d.backend.Flush(); err != nil {
		return wrapBackend(err, "failed to flush backend")
	}
	return nil
}

func wrapBackend(err error, msg string) error {
	if apperrors.GetCode(err) != apperrors.ErrCodeInternal {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeBackendIO, msg)
}

func (d *Display) publish(t telemetry.EventType, data map[string]any) {
	d.hub.Publish(telemetry.Event{
		Type:      t,
		SessionID: d.logger.SessionID(),
		Frame:     d.frame,
		Data:      data,
	})
}

// blankUpdates lists every cell of b so a region can be overwritten.
func blankUpdates(b *buffer.Buffer) []buffer.Update {
	area := b.Area()
	updates := make([]buffer.Update, 0, area.Cells())
	for y := area.Top(); y < area.Bottom(); y++ {
		for x := area.Left(); x < area.Right(); x++ {
			updates = append(updates, buffer.Update{X: x, Y: y, Cell: *b.At(x, y)})
		}
	}
	return updates
}
