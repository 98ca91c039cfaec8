package buffer

import (
	"strings"

	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Alignment positions a line horizontally inside its area.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Span is a run of text with one style.
type Span struct {
	Content string
	Style   style.Style
}

// Raw returns an unstyled span.
func Raw(s string) Span {
	return Span{Content: s}
}

// Styled returns a span with a style.
func Styled(s string, st style.Style) Span {
	return Span{Content: s, Style: st}
}

// Width returns the display width of the span.
func (s Span) Width() int {
	w := 0
	eachGrapheme(s.Content, func(_ string, cw int) bool {
		w += cw
		return true
	})
	return w
}

// Line is a sequence of spans rendered on one row. Style is patched under
// every span.
type Line struct {
	Spans     []Span
	Style     style.Style
	Alignment Alignment
}

// NewLine builds a line from spans.
func NewLine(spans ...Span) Line {
	return Line{Spans: spans}
}

// LineFrom builds an unstyled single-span line.
func LineFrom(s string) Line {
	return Line{Spans: []Span{Raw(s)}}
}

// Aligned returns a copy with the alignment set.
func (l Line) Aligned(a Alignment) Line {
	l.Alignment = a
	return l
}

// Styled returns a copy with the line style set.
func (l Line) Styled(st style.Style) Line {
	l.Style = st
	return l
}

// Width returns the display width of the line.
func (l Line) Width() int {
	w := 0
	for _, s := range l.Spans {
		w += s.Width()
	}
	return w
}

func (l Line) String() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Content)
	}
	return sb.String()
}

// Text is a block of lines.
type Text struct {
	Lines     []Line
	Style     style.Style
	Alignment Alignment
}

// TextFrom splits s on newlines into unstyled lines.
func TextFrom(s string) Text {
	var t Text
	for _, part := range strings.Split(s, "\n") {
		t.Lines = append(t.Lines, LineFrom(part))
	}
	return t
}

// NewText builds a text from lines.
func NewText(lines ...Line) Text {
	return Text{Lines: lines}
}

// Width returns the widest line.
func (t Text) Width() int {
	w := 0
	for _, l := range t.Lines {
		w = max(w, l.Width())
	}
	return w
}

// Height returns the number of lines.
func (t Text) Height() int {
	return len(t.Lines)
}
