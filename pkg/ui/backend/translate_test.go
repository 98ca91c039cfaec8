package backend

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

func cell(symbol string, st style.Style) buffer.Cell {
	c := buffer.NewCell(symbol)
	c.SetStyle(st)
	return c
}

func assertActions(t *testing.T, got []Action, want ...Action) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("actions:\n got %v\nwant %v", got, want)
	}
}

func TestTranslateEmptyFrame(t *testing.T) {
	if got := Translate(nil); got != nil {
		t.Errorf("Translate(nil) = %v, want nil", got)
	}
}

func TestTranslateMovesOnlyWhenNeeded(t *testing.T) {
	plain := style.New()
	got := Translate([]buffer.Update{
		{X: 0, Y: 0, Cell: cell("a", plain)},
		{X: 1, Y: 0, Cell: cell("b", plain)},
		{X: 4, Y: 0, Cell: cell("c", plain)},
		{X: 0, Y: 1, Cell: cell("d", plain)},
	})
	assertActions(t, got,
		MoveTo{X: 0, Y: 0}, Print{Symbol: "a"}, Print{Symbol: "b"},
		MoveTo{X: 4, Y: 0}, Print{Symbol: "c"},
		MoveTo{X: 0, Y: 1}, Print{Symbol: "d"},
		ResetStyle{},
	)
}

func TestTranslatePenState(t *testing.T) {
	red := style.New().Foreground(style.Red)
	got := Translate([]buffer.Update{
		{X: 0, Y: 0, Cell: cell("a", red)},
		{X: 1, Y: 0, Cell: cell("b", red)},
		{X: 2, Y: 0, Cell: cell("c", style.New())},
		{X: 3, Y: 0, Cell: cell("d", style.New().Background(style.RGB(1, 2, 3)))},
	})
	assertActions(t, got,
		MoveTo{X: 0, Y: 0},
		SetForeground{Color: style.Red}, Print{Symbol: "a"}, Print{Symbol: "b"},
		SetForeground{Color: style.Reset}, Print{Symbol: "c"},
		SetBackground{Color: style.RGB(1, 2, 3)}, Print{Symbol: "d"},
		ResetStyle{},
	)
}

func TestTranslateModifiers(t *testing.T) {
	got := Translate([]buffer.Update{
		{X: 0, Y: 0, Cell: cell("a", style.New().Bold().Italic())},
		{X: 1, Y: 0, Cell: cell("b", style.New().Italic())},
		{X: 2, Y: 0, Cell: cell("c", style.New().Italic().Underlined())},
	})
	assertActions(t, got,
		MoveTo{X: 0, Y: 0},
		SetModifier{Modifier: style.Bold}, SetModifier{Modifier: style.Italic}, Print{Symbol: "a"},
		UnsetModifier{Modifier: style.Bold}, Print{Symbol: "b"},
		SetModifier{Modifier: style.Underlined}, Print{Symbol: "c"},
		ResetStyle{},
	)
}

func TestTranslateBoldDimShareReset(t *testing.T) {
	got := Translate([]buffer.Update{
		{X: 0, Y: 0, Cell: cell("a", style.New().Bold().Dim())},
		{X: 1, Y: 0, Cell: cell("b", style.New().Dim())},
	})
	assertActions(t, got,
		MoveTo{X: 0, Y: 0},
		SetModifier{Modifier: style.Bold}, SetModifier{Modifier: style.Dim}, Print{Symbol: "a"},
		UnsetModifier{Modifier: style.Bold}, SetModifier{Modifier: style.Dim}, Print{Symbol: "b"},
		ResetStyle{},
	)
}

func TestTranslateSkipsCellsUnderWideGlyph(t *testing.T) {
	got := Translate([]buffer.Update{
		{X: 0, Y: 0, Cell: cell("日", style.New())},
		{X: 1, Y: 0, Cell: buffer.EmptyCell()},
		{X: 2, Y: 0, Cell: cell("a", style.New())},
		{X: 1, Y: 1, Cell: cell("b", style.New())},
	})
	assertActions(t, got,
		MoveTo{X: 0, Y: 0}, Print{Symbol: "日"}, Print{Symbol: "a"},
		MoveTo{X: 1, Y: 1}, Print{Symbol: "b"},
		ResetStyle{},
	)
}

func TestTranslateDiff(t *testing.T) {
	area := geometry.Rect(2, 3, 4, 1)
	prev := buffer.Empty(area)
	next := buffer.Empty(area)
	next.SetString(2, 3, "ab", style.New())

	updates, err := prev.Diff(next)
	if err != nil {
		t.Fatal(err)
	}
	assertActions(t, Translate(updates),
		MoveTo{X: 2, Y: 3}, Print{Symbol: "a"}, Print{Symbol: "b"}, ResetStyle{},
	)
}

func TestPenTransitionIdentity(t *testing.T) {
	p := PenOf(cell("x", style.New().Foreground(style.Blue).Bold()))
	if got := p.Transition(p); got != nil {
		t.Errorf("Transition to self = %v", got)
	}
	if DefaultPen() != PenOf(buffer.EmptyCell()) {
		t.Error("empty cell should draw with the default pen")
	}
}

func TestActionStrings(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{MoveTo{X: 1, Y: 2}, "MoveTo(1, 2)"},
		{Print{Symbol: "a"}, `Print("a")`},
		{Clear{Kind: ClearFromCursorDown}, "Clear(FromCursorDown)"},
		{ScrollUp{Lines: 3}, "ScrollUp(3)"},
		{SetModifier{Modifier: style.Bold}, "SetModifier(Bold)"},
		{ResetStyle{}, "ResetStyle"},
		{EnterAlternateScreen{}, "EnterAlternateScreen"},
	}
	for _, tt := range tests {
		if got := fmt.Sprint(tt.action); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
