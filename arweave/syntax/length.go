package syntax

import (
	"github.com/rivo/uniseg"
)

// Counts user-perceived characters (grapheme clusters) in s.
//
// An emoji with modifiers, or a letter with combining marks, counts once.
func GraphemeLength(s string) int {
	n := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		n++
	}
	return n
}
