package buffer

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// eachGrapheme calls fn for every printable grapheme cluster with its width.
// Control characters and zero-width clusters are dropped.
func eachGrapheme(s string, fn func(cluster string, width int) bool) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if isControl(g.Runes()) {
			continue
		}
		w := symbolWidth(cluster)
		if w == 0 {
			continue
		}
		if !fn(cluster, w) {
			return
		}
	}
}

func isControl(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
