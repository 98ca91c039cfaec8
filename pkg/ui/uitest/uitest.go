// Package uitest holds assertions for rendered buffers and terminal grids.
package uitest

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// T is the subset of testing.TB the assertions use.
type T interface {
	require.TestingT
	Helper()
}

// Diff returns a unified diff of two grids, or "" when they match.
func Diff(want, got []string) string {
	if equal(want, got) {
		return ""
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        visible(want),
		B:        visible(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return out
}

// AssertGrid reports a diff when got differs from want.
func AssertGrid(t T, got []string, want ...string) bool {
	t.Helper()
	if d := Diff(want, got); d != "" {
		return assert.Fail(t, "grid mismatch", d)
	}
	return true
}

// AssertLines reports a diff when the buffer rows differ from want.
func AssertLines(t T, buf *buffer.Buffer, want ...string) bool {
	t.Helper()
	return AssertGrid(t, buf.Lines(), want...)
}

// RequireLines is AssertLines that stops the test on mismatch.
func RequireLines(t T, buf *buffer.Buffer, want ...string) {
	t.Helper()
	if !AssertLines(t, buf, want...) {
		t.FailNow()
	}
}

// Cell returns the cell at (x, y), failing the test when it is outside the
// buffer.
func Cell(t T, buf *buffer.Buffer, x, y int) buffer.Cell {
	t.Helper()
	c, err := buf.Get(x, y)
	require.NoError(t, err)
	return c
}

// AssertStyle checks the colors and modifiers of one cell.
func AssertStyle(t T, buf *buffer.Buffer, x, y int, fg, bg style.Color, mods style.Modifier) bool {
	t.Helper()
	c := Cell(t, buf, x, y)
	ok := assert.Equalf(t, fg, c.Fg, "fg at (%d, %d)", x, y)
	ok = assert.Equalf(t, bg, c.Bg, "bg at (%d, %d)", x, y) && ok
	return assert.Equalf(t, mods, c.Modifier, "modifiers at (%d, %d)", x, y) && ok
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// visible turns rows into diff lines with trailing spaces made visible.
func visible(rows []string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		trimmed := strings.TrimRight(r, " ")
		out[i] = trimmed + strings.Repeat("·", len(r)-len(trimmed)) + "\n"
	}
	return out
}
