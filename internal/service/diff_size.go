package service

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffSize returns how much text changed between two strings: the sum of the
// lengths of all non-common diff segments, in runes. It is a magnitude
// estimate only, not a displayable diff.
func DiffSize(before, after string) int {
	if before == after {
		return 0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	size := 0
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			size += utf8.RuneCountInString(d.Text)
		}
	}
	return size
}
