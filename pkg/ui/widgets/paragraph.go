package widgets

import (
	"github.com/rivo/uniseg"

	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// Paragraph renders text, optionally wrapped and scrolled, inside an
// optional block.
type Paragraph struct {
	Text      buffer.Text
	Style     style.Style
	Alignment buffer.Alignment
	Wrap      bool
	Trim      bool
	Scroll    int
	Block     *Block
}

// NewParagraph creates a paragraph from plain text.
func NewParagraph(text string) Paragraph {
	return Paragraph{Text: buffer.TextFrom(text)}
}

// NewStyledParagraph creates a paragraph from styled text.
func NewStyledParagraph(text buffer.Text) Paragraph {
	return Paragraph{Text: text}
}

// WithStyle returns a copy with a base style.
func (p Paragraph) WithStyle(s style.Style) Paragraph {
	p.Style = s
	return p
}

// WithAlignment returns a copy with line alignment.
func (p Paragraph) WithAlignment(a buffer.Alignment) Paragraph {
	p.Alignment = a
	return p
}

// WithWrap returns a copy that word-wraps, trimming leading spaces on
// wrapped rows when trim is set.
func (p Paragraph) WithWrap(trim bool) Paragraph {
	p.Wrap = true
	p.Trim = trim
	return p
}

// WithScroll returns a copy scrolled down by rows.
func (p Paragraph) WithScroll(rows int) Paragraph {
	p.Scroll = max(0, rows)
	return p
}

// WithBlock returns a copy rendered inside b.
func (p Paragraph) WithBlock(b Block) Paragraph {
	p.Block = &b
	return p
}

type grapheme struct {
	symbol string
	width  int
	style  style.Style
}

func renderParagraph(ctx widget.RenderContext, p Paragraph) error {
	area := ctx.Area
	if p.Block != nil {
		if err := renderBlock(ctx, *p.Block); err != nil {
			return err
		}
		area = p.Block.Inner(area)
	}
	if area.IsEmpty() {
		return nil
	}
	buf := ctx.Buffer
	base := p.Style.Patch(p.Text.Style)
	buf.SetStyle(area, base)

	var rows []buffer.Line
	for _, line := range p.Text.Lines {
		align := p.Alignment
		if line.Alignment != buffer.AlignLeft {
			align = line.Alignment
		} else if p.Text.Alignment != buffer.AlignLeft {
			align = p.Text.Alignment
		}
		if !p.Wrap {
			rows = append(rows, line.Aligned(align))
			continue
		}
		for _, wrapped := range wrap(line, area.Width, p.Trim) {
			rows = append(rows, toLine(wrapped).Aligned(align))
		}
	}

	for i := 0; i < area.Height; i++ {
		n := i + p.Scroll
		if n >= len(rows) {
			break
		}
		drawAligned(buf, area.X, area.Y+i, area.Width, rows[n], rows[n].Alignment)
	}
	return nil
}

func graphemes(line buffer.Line) []grapheme {
	var out []grapheme
	for _, span := range line.Spans {
		st := line.Style.Patch(span.Style)
		g := uniseg.NewGraphemes(span.Content)
		for g.Next() {
			w := buffer.Raw(g.Str()).Width()
			if w == 0 {
				continue
			}
			out = append(out, grapheme{symbol: g.Str(), width: w, style: st})
		}
	}
	return out
}

// wrap breaks a line into rows no wider than width, preferring to break
// after spaces.
func wrap(line buffer.Line, width int, trim bool) [][]grapheme {
	if width <= 0 {
		return nil
	}
	var rows [][]grapheme
	var cur []grapheme
	curWidth, lastSpace := 0, -1

	emit := func(row []grapheme) {
		if trim {
			for len(row) > 0 && row[len(row)-1].symbol == " " {
				row = row[:len(row)-1]
			}
		}
		rows = append(rows, row)
	}

	for _, g := range graphemes(line) {
		if curWidth+g.width > width {
			var rest []grapheme
			if lastSpace >= 0 && g.symbol != " " {
				rest = append(rest, cur[lastSpace+1:]...)
				cur = cur[:lastSpace+1]
			}
			emit(cur)
			cur, curWidth, lastSpace = rest, 0, -1
			for _, r := range rest {
				curWidth += r.width
			}
			if trim && g.symbol == " " && len(cur) == 0 {
				continue
			}
		}
		if trim && g.symbol == " " && len(cur) == 0 && len(rows) > 0 {
			continue
		}
		cur = append(cur, g)
		curWidth += g.width
		if g.symbol == " " {
			lastSpace = len(cur) - 1
		}
	}
	if len(cur) > 0 || len(rows) == 0 {
		emit(cur)
	}
	return rows
}

func toLine(gs []grapheme) buffer.Line {
	var line buffer.Line
	for _, g := range gs {
		n := len(line.Spans)
		if n > 0 && line.Spans[n-1].Style == g.style {
			line.Spans[n-1].Content += g.symbol
			continue
		}
		line.Spans = append(line.Spans, buffer.Styled(g.symbol, g.style))
	}
	return line
}
