package display

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/cellgrid/pkg/config"
	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/logging"
	"github.com/odvcencio/cellgrid/pkg/telemetry"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/backend/sim"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
	"github.com/odvcencio/cellgrid/pkg/ui/uitest"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
	"github.com/odvcencio/cellgrid/pkg/ui/widgets"
)

func text(s string) widget.RenderFunc {
	return func(ctx widget.RenderContext) error {
		for i, line := range strings.Split(s, "\n") {
			ctx.Buffer.SetStringN(ctx.Area.X, ctx.Area.Y+i, line, ctx.Area.Width, style.New())
		}
		return nil
	}
}

func pad(width int, rows ...string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r + strings.Repeat(" ", width-len(r))
	}
	return out
}

func build(t *testing.T, b *Builder) *Display {
	t.Helper()
	d, err := b.Build()
	require.NoError(t, err)
	return d
}

func TestBuild_Fullscreen(t *testing.T) {
	term := sim.New(10, 3)
	d := build(t, NewBuilder(term))

	assert.Equal(t, geometry.Sized(10, 3), d.Area())
	assert.Equal(t, geometry.Sized(10, 3), d.Size())
	assert.Equal(t, KindFullscreen, d.Viewport().Kind())
	assert.Equal(t, []string{widgets.CoreName}, d.Registry().Extensions())
	assert.Equal(t, geometry.Sized(10, 3), d.Buffer().Area())
}

func TestBuild_Errors(t *testing.T) {
	_, err := NewBuilder(nil).Build()
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))

	_, err = NewBuilder(sim.New(4, 4)).WithViewport(Inline(0)).Build()
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidGeometry))

	_, err = NewBuilder(sim.New(4, 4)).WithViewport(Fixed(geometry.Area{X: -1, Width: 2, Height: 2})).Build()
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidGeometry))
}

func TestBuild_ExtensionOrder(t *testing.T) {
	custom := widget.Bundle{ID: "custom"}
	d := build(t, NewBuilder(sim.New(4, 1)).WithExtension(custom))
	assert.Equal(t, []string{widgets.CoreName, "custom"}, d.Registry().Extensions())

	bare := build(t, NewBuilder(sim.New(4, 1)).WithoutCore().WithExtension(custom))
	assert.Equal(t, []string{"custom"}, bare.Registry().Extensions())
}

func TestDraw_SendsOnlyChanges(t *testing.T) {
	term := sim.New(10, 2)
	d := build(t, NewBuilder(term))

	frame, err := d.Draw(widgets.NewParagraph("hello"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), frame.Number)
	assert.Equal(t, 5, frame.Updates)
	uitest.AssertGrid(t, term.Lines(), pad(10, "hello", "")...)
	assert.Equal(t, []backend.Action{
		backend.MoveTo{X: 0, Y: 0},
		backend.Print{Symbol: "h"},
		backend.Print{Symbol: "e"},
		backend.Print{Symbol: "l"},
		backend.Print{Symbol: "l"},
		backend.Print{Symbol: "o"},
		backend.ResetStyle{},
	}, term.Actions())
	assert.Equal(t, "hello", strings.TrimSpace(frame.Buffer.Lines()[0]))

	term.ResetActions()
	flushes := term.Flushes()
	frame, err = d.Draw(widgets.NewParagraph("hello"))
	require.NoError(t, err)
	assert.Zero(t, frame.Updates)
	assert.Empty(t, term.Actions())
	assert.Equal(t, flushes, term.Flushes(), "an unchanged frame is not flushed")

	frame, err = d.Draw(widgets.NewParagraph("help"))
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Updates)
	uitest.AssertGrid(t, term.Lines(), pad(10, "help", "")...)
	assert.Equal(t, uint64(3), d.Frames())
}

func TestDraw_WideGlyphs(t *testing.T) {
	term := sim.New(6, 1)
	d := build(t, NewBuilder(term))

	_, err := d.Draw(text("日本"))
	require.NoError(t, err)
	uitest.AssertGrid(t, term.Lines(), "日本  ")

	_, err = d.Draw(text("a本"))
	require.NoError(t, err)
	uitest.AssertGrid(t, term.Lines(), "a本   ")
}

func TestDraw_Styles(t *testing.T) {
	term := sim.New(4, 1)
	d := build(t, NewBuilder(term))

	red := style.New().Foreground(style.Red).AddModifier(style.Bold)
	_, err := d.Draw(widgets.NewParagraph("ab").WithStyle(red))
	require.NoError(t, err)

	c := term.CaptureCell(0, 0)
	assert.Equal(t, style.Red, c.Fg)
	assert.True(t, c.Modifier&style.Bold != 0)
}

func TestAutoresize_Fullscreen(t *testing.T) {
	term := sim.New(8, 2)
	d := build(t, NewBuilder(term))
	_, err := d.Draw(text("abc"))
	require.NoError(t, err)

	term.Resize(5, 3)
	term.ResetActions()
	frame, err := d.Draw(text("xy"))
	require.NoError(t, err)

	assert.Equal(t, geometry.Sized(5, 3), frame.Area)
	assert.Equal(t, geometry.Sized(5, 3), d.Area())
	assert.Equal(t, backend.Clear{Kind: backend.ClearAll}, term.Actions()[0])
	uitest.AssertGrid(t, term.Lines(), pad(5, "xy", "", "")...)
}

func TestFixedViewport(t *testing.T) {
	term := sim.New(10, 4)
	d := build(t, NewBuilder(term).WithViewport(Fixed(geometry.Rect(2, 1, 4, 2))))

	_, err := d.Draw(text("abcdefgh\nijkl\nmnop"))
	require.NoError(t, err)
	uitest.AssertGrid(t, term.Lines(), pad(10, "", "  abcd", "  ijkl", "")...)

	term.Resize(12, 5)
	_, err = d.Draw(text("zz"))
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect(2, 1, 4, 2), d.Area(), "fixed viewports ignore terminal resizes")

	require.NoError(t, d.Resize(geometry.Rect(0, 0, 3, 1)))
	assert.Equal(t, geometry.Rect(0, 0, 3, 1), d.Viewport().Area())
	_, err = d.Draw(text("qrstu"))
	require.NoError(t, err)
	assert.Equal(t, "qrs", term.CaptureRegion(0, 0, 3, 1))

	assert.True(t, apperrors.IsCode(d.Resize(geometry.Area{Width: -1}), apperrors.ErrCodeInvalidGeometry))
}

func TestClear(t *testing.T) {
	term := sim.New(6, 2)
	d := build(t, NewBuilder(term))
	_, err := d.Draw(text("abc"))
	require.NoError(t, err)

	require.NoError(t, d.Clear())
	uitest.AssertGrid(t, term.Lines(), pad(6, "", "")...)

	frame, err := d.Draw(text("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, frame.Updates, "a cleared display repaints everything")
	uitest.AssertGrid(t, term.Lines(), pad(6, "abc", "")...)
}

func TestClear_Fixed(t *testing.T) {
	term := sim.New(6, 3)
	require.NoError(t, term.Execute(backend.MoveTo{X: 0, Y: 0}, backend.Print{Symbol: "#"}))

	d := build(t, NewBuilder(term).WithViewport(Fixed(geometry.Rect(1, 1, 2, 1))))
	_, err := d.Draw(text("ab"))
	require.NoError(t, err)
	require.NoError(t, d.Clear())

	// Only the fixed region is blanked.
	uitest.AssertGrid(t, term.Lines(), pad(6, "#", "", "")...)
}

func TestInline_AnchorsAtCursor(t *testing.T) {
	term := sim.New(10, 6)
	term.SetCursor(geometry.Position{X: 4, Y: 2})

	d := build(t, NewBuilder(term).WithViewport(Inline(3)))
	assert.Equal(t, geometry.Rect(0, 2, 10, 3), d.Area())

	_, err := d.Draw(text("live"))
	require.NoError(t, err)
	x, y := term.FindText("live")
	assert.Equal(t, 0, x)
	assert.Equal(t, 2, y)
}

func TestInline_ScrollsWhenOverflowing(t *testing.T) {
	term := sim.New(10, 6)
	require.NoError(t, term.Execute(backend.MoveTo{X: 0, Y: 5}, backend.Print{Symbol: "$"}))
	term.SetCursor(geometry.Position{X: 0, Y: 5})
	term.ResetActions()

	d := build(t, NewBuilder(term).WithViewport(Inline(3)))
	assert.Equal(t, geometry.Rect(0, 3, 10, 3), d.Area())
	assert.Equal(t, []backend.Action{backend.ScrollUp{Lines: 2}}, term.Actions())
	assert.Equal(t, "$", strings.TrimSpace(term.Lines()[3]))
}

func TestInline_CursorQueryFailure(t *testing.T) {
	term := sim.New(10, 6)
	term.FailCursorQuery(apperrors.New(apperrors.ErrCodeCursorQueryTimeout, "no answer"))

	_, err := NewBuilder(term).WithViewport(Inline(2)).Build()
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCursorQueryTimeout))
}

func TestInsertBefore(t *testing.T) {
	term := sim.New(10, 4)
	d := build(t, NewBuilder(term).WithViewport(Inline(2)))
	require.Equal(t, geometry.Rect(0, 0, 10, 2), d.Area())

	draw := func() {
		t.Helper()
		_, err := d.Draw(text("live"))
		require.NoError(t, err)
	}

	draw()
	require.NoError(t, d.InsertBefore(1, text("log 1")))
	assert.Equal(t, geometry.Rect(0, 1, 10, 2), d.Area())
	draw()
	uitest.AssertGrid(t, term.Lines(), pad(10, "log 1", "live", "", "")...)

	require.NoError(t, d.InsertBefore(1, text("log 2")))
	draw()
	uitest.AssertGrid(t, term.Lines(), pad(10, "log 1", "log 2", "live", "")...)

	require.NoError(t, d.InsertBefore(1, text("log 3")))
	draw()
	assert.Equal(t, geometry.Rect(0, 2, 10, 2), d.Area())
	uitest.AssertGrid(t, term.Lines(), pad(10, "log 2", "log 3", "live", "")...)
}

func TestInsertBefore_TallerThanTerminal(t *testing.T) {
	term := sim.New(4, 3)
	d := build(t, NewBuilder(term).WithViewport(Inline(1)))

	require.NoError(t, d.InsertBefore(4, text("a\nb\nc\nd")))
	_, err := d.Draw(text("v"))
	require.NoError(t, err)

	uitest.AssertGrid(t, term.Lines(), pad(4, "c", "d", "v")...)
	assert.Equal(t, geometry.Rect(0, 2, 4, 1), d.Area())
}

func TestInsertBefore_RequiresInline(t *testing.T) {
	d := build(t, NewBuilder(sim.New(4, 4)))
	err := d.InsertBefore(1, text("x"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))

	inline := build(t, NewBuilder(sim.New(4, 4)).WithViewport(Inline(1)))
	assert.NoError(t, inline.InsertBefore(0, text("x")))
}

func TestCursor(t *testing.T) {
	term := sim.New(6, 3)
	d := build(t, NewBuilder(term))

	require.NoError(t, d.SetCursor(geometry.Position{X: 3, Y: 1}))
	_, err := d.Draw(text("abc"))
	require.NoError(t, err)
	pos, visible := term.Cursor()
	assert.Equal(t, geometry.Position{X: 3, Y: 1}, pos, "cursor returns to its position after a frame")
	assert.True(t, visible)

	require.NoError(t, d.HideCursor())
	_, visible = term.Cursor()
	assert.False(t, visible)

	require.NoError(t, d.ShowCursor())
	_, visible = term.Cursor()
	assert.True(t, visible)
}

func TestHiddenCursorStaysHidden(t *testing.T) {
	term := sim.New(6, 1)
	d := build(t, NewBuilder(term).WithHiddenCursor(true))
	require.NoError(t, d.Start())

	_, err := d.Draw(text("a"))
	require.NoError(t, err)
	_, visible := term.Cursor()
	assert.False(t, visible)

	for _, a := range term.Actions() {
		assert.NotEqual(t, backend.ShowCursor{}, a)
	}
}

func TestCursorPosition(t *testing.T) {
	term := sim.New(6, 3)
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	d := build(t, NewBuilder(term).WithMetrics(metrics))

	term.SetCursor(geometry.Position{X: 2, Y: 1})
	pos, err := d.CursorPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, geometry.Position{X: 2, Y: 1}, pos)

	term.FailCursorQuery(apperrors.New(apperrors.ErrCodeCursorQueryTimeout, "late"))
	_, err = d.CursorPosition(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCursorQueryTimeout))

	term.FailCursorQuery(errors.New("tty gone"))
	_, err = d.CursorPosition(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBackendIO))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CursorQueries.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CursorQueries.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CursorQueries.WithLabelValues("error")))
}

func TestCursorPosition_ExpiredContext(t *testing.T) {
	term := sim.New(6, 3)
	d := build(t, NewBuilder(term))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := d.CursorPosition(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCursorQueryTimeout))
}

func TestStartClose(t *testing.T) {
	term := sim.New(6, 3)
	d := build(t, NewBuilder(term).
		WithRawMode(true).
		WithAlternateScreen(true).
		WithMouseCapture(true).
		WithHiddenCursor(true))

	require.NoError(t, d.Start())
	require.NoError(t, d.Start())
	assert.True(t, term.RawMode())
	assert.True(t, term.AlternateScreen())
	assert.True(t, term.MouseCapture())
	_, visible := term.Cursor()
	assert.False(t, visible)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.False(t, term.RawMode())
	assert.False(t, term.AlternateScreen())
	assert.False(t, term.MouseCapture())
	_, visible = term.Cursor()
	assert.True(t, visible)
}

func TestStart_InlineSkipsAlternateScreen(t *testing.T) {
	term := sim.New(6, 3)
	d := build(t, NewBuilder(term).WithViewport(Inline(1)).WithAlternateScreen(true))
	require.NoError(t, d.Start())
	assert.False(t, term.AlternateScreen())

	require.NoError(t, d.Close())
	pos, _ := term.Cursor()
	assert.Equal(t, 1, pos.Y, "cursor is left below the inline viewport")
}

type closingBackend struct {
	*sim.Backend
	closed bool
}

func (c *closingBackend) Close() error {
	c.closed = true
	return nil
}

func TestClose_ClosesBackend(t *testing.T) {
	b := &closingBackend{Backend: sim.New(2, 2)}
	d := build(t, NewBuilder(b))
	require.NoError(t, d.Close())
	assert.True(t, b.closed)
}

type failingBackend struct {
	*sim.Backend
	flushErr error
}

func (f *failingBackend) Flush() error {
	return f.flushErr
}

func TestDraw_BackendFailure(t *testing.T) {
	b := &failingBackend{Backend: sim.New(4, 1), flushErr: errors.New("broken pipe")}
	d := build(t, NewBuilder(b))

	_, err := d.Draw(text("a"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBackendIO))
	assert.Zero(t, d.Frames(), "failed frames are not counted")
}

func TestDraw_RenderFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New("test", logging.Options{Output: &logs})
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	hub := telemetry.NewHub()
	defer hub.Close()
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	term := sim.New(4, 1)
	d := build(t, NewBuilder(term).WithLogger(logger).WithMetrics(metrics).WithHub(hub))

	failure := widget.RenderFunc(func(widget.RenderContext) error {
		return apperrors.New(apperrors.ErrCodeInsufficientConstraints, "not enough constraints")
	})
	_, err := d.Draw(failure)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInsufficientConstraints))
	assert.Empty(t, term.Actions())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DrawErrors.WithLabelValues(string(apperrors.ErrCodeInsufficientConstraints))))
	assert.Contains(t, logs.String(), `"msg":"draw failed"`)
	select {
	case ev := <-events:
		assert.Equal(t, telemetry.EventFrameFailed, ev.Type)
		assert.Equal(t, logger.SessionID(), ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("no failure event")
	}
}

func TestDraw_Telemetry(t *testing.T) {
	var spans bytes.Buffer
	tp, err := telemetry.NewTracerProvider(telemetry.TracingOptions{Output: &spans, Synchronous: true})
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	hub := telemetry.NewHub()
	defer hub.Close()
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	term := sim.New(8, 2)
	d := build(t, NewBuilder(term).WithTracer(tp.Tracer()).WithMetrics(metrics).WithHub(hub))

	_, err = d.Draw(text("hi"))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FramesDrawn.WithLabelValues("fullscreen")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CellsUpdated.WithLabelValues("fullscreen")))
	assert.Contains(t, spans.String(), `"Name":"display.draw"`)
	assert.Contains(t, spans.String(), `"Name":"display.render"`)

	select {
	case ev := <-events:
		assert.Equal(t, telemetry.EventFrameDrawn, ev.Type)
		assert.Equal(t, uint64(1), ev.Frame)
		assert.Equal(t, 2, ev.Data["updates"])
	case <-time.After(time.Second):
		t.Fatal("no frame event")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.Viewport = config.ViewportFixed
	cfg.Display.Fixed = config.AreaConfig{X: 1, Y: 1, Width: 3, Height: 1}
	cfg.Display.CursorQueryTimeout = 50 * time.Millisecond
	cfg.Display.MouseCapture = true

	b := NewBuilder(sim.New(8, 4)).FromConfig(cfg)
	assert.Equal(t, Fixed(geometry.Rect(1, 1, 3, 1)), b.viewport)
	assert.Equal(t, 50*time.Millisecond, b.queryTimeout)
	assert.True(t, b.altScreen)
	assert.False(t, b.rawMode)
	assert.True(t, b.hideCursor)
	assert.True(t, b.mouseCapture)

	cfg.Display.Viewport = config.ViewportInline
	cfg.Display.InlineHeight = 2
	assert.Equal(t, Inline(2), NewBuilder(sim.New(8, 4)).FromConfig(cfg).viewport)

	assert.Equal(t, Fullscreen(), NewBuilder(sim.New(8, 4)).FromConfig(nil).viewport)
}

func TestViewportString(t *testing.T) {
	assert.Equal(t, "fullscreen", Fullscreen().String())
	assert.Equal(t, "inline(3)", Inline(3).String())
	assert.True(t, strings.HasPrefix(Fixed(geometry.Rect(1, 2, 3, 4)).String(), "fixed("))
	assert.Equal(t, "ViewportKind(9)", ViewportKind(9).String())
}
