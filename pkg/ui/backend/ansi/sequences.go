package ansi

import (
	"fmt"
	"strconv"

	"github.com/muesli/termenv"

	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

const (
	csi = "\x1b["

	seqReset          = csi + "0m"
	seqQueryCursor    = csi + "6n"
	seqShowCursor     = csi + "?25h"
	seqHideCursor     = csi + "?25l"
	seqAltScreenEnter = csi + "?1049h"
	seqAltScreenExit  = csi + "?1049l"
	// Button tracking, drag tracking, urxvt and SGR encodings.
	seqMouseOn  = csi + "?1000h" + csi + "?1002h" + csi + "?1015h" + csi + "?1006h"
	seqMouseOff = csi + "?1006l" + csi + "?1015l" + csi + "?1002l" + csi + "?1000l"
)

var (
	setModifierCodes = map[style.Modifier]string{
		style.Bold:       "1",
		style.Dim:        "2",
		style.Italic:     "3",
		style.Underlined: "4",
		style.SlowBlink:  "5",
		style.RapidBlink: "6",
		style.Reversed:   "7",
		style.Hidden:     "8",
		style.CrossedOut: "9",
	}
	unsetModifierCodes = map[style.Modifier]string{
		style.Bold:       "22",
		style.Dim:        "22",
		style.Italic:     "23",
		style.Underlined: "24",
		style.SlowBlink:  "25",
		style.RapidBlink: "25",
		style.Reversed:   "27",
		style.Hidden:     "28",
		style.CrossedOut: "29",
	}
	clearCodes = map[backend.ClearKind]string{
		backend.ClearAll:            "2J",
		backend.ClearFromCursorDown: "J",
		backend.ClearCurrentLine:    "2K",
		backend.ClearUntilNewLine:   "K",
	}
)

func sgr(params string) string {
	return csi + params + "m"
}

func moveTo(x, y int) string {
	return csi + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H"
}

// toTermenv converts a concrete color. ok is false for Reset, None and
// gradients, which all select the terminal default.
func toTermenv(c style.Color) (termenv.Color, bool) {
	switch c.Kind() {
	case style.KindNamed:
		return termenv.ANSIColor(c.Index()), true
	case style.KindIndexed:
		return termenv.ANSI256Color(c.Index()), true
	case style.KindRGB:
		r, g, b, _ := c.RGB()
		return termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
	}
	return nil, false
}

// colorParams returns SGR parameters for a foreground or background color,
// degraded to what the profile supports. An empty result means the profile
// cannot draw color at all.
func colorParams(p termenv.Profile, c style.Color, bg bool) string {
	tc, ok := toTermenv(c)
	if !ok {
		if bg {
			return "49"
		}
		return "39"
	}
	return p.Convert(tc).Sequence(bg)
}

// underlineParams returns SGR parameters for an underline color. Underline
// colors only exist in the 256 and true color spaces.
func underlineParams(p termenv.Profile, c style.Color) string {
	tc, ok := toTermenv(c)
	if !ok {
		return "59"
	}
	if p == termenv.Ascii {
		return ""
	}
	if p == termenv.TrueColor && c.Kind() == style.KindRGB {
		r, g, b, _ := c.RGB()
		return fmt.Sprintf("58;2;%d;%d;%d", r, g, b)
	}
	switch v := p.Convert(tc).(type) {
	case termenv.ANSI256Color:
		return "58;5;" + strconv.Itoa(int(v))
	case termenv.ANSIColor:
		return "58;5;" + strconv.Itoa(int(v))
	}
	return ""
}
