package style

import "strings"

// Modifier is a bitset of text attributes.
type Modifier uint16

const (
	Bold Modifier = 1 << iota
	Dim
	Italic
	Underlined
	SlowBlink
	RapidBlink
	Reversed
	Hidden
	CrossedOut
)

// AllModifiers has every modifier bit set.
const AllModifiers = Bold | Dim | Italic | Underlined | SlowBlink | RapidBlink | Reversed | Hidden | CrossedOut

var modifierNames = []string{
	"Bold", "Dim", "Italic", "Underlined", "SlowBlink",
	"RapidBlink", "Reversed", "Hidden", "CrossedOut",
}

// Has reports whether every bit of o is set.
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

// Each calls fn for every set bit, lowest first.
func (m Modifier) Each(fn func(Modifier)) {
	for i := range modifierNames {
		bit := Modifier(1) << i
		if m&bit != 0 {
			fn(bit)
		}
	}
}

func (m Modifier) String() string {
	if m == 0 {
		return "NONE"
	}
	var parts []string
	for i, name := range modifierNames {
		if m&(Modifier(1)<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " | ")
}
