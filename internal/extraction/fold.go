package extraction

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// folded holds two lowercase forms of a text. Unicode lowering maps "I" to
// "i" and "İ" to "i̇"; Turkish lowering maps them to "ı" and "i". OCR output
// mixes both alphabets, so a keyword counts if either form contains it.
type folded [2]string

func fold(s string) folded {
	// A Caser is stateful, so one is built per call.
	return folded{strings.ToLower(s), cases.Lower(language.Turkish).String(s)}
}

func (f folded) contains(keyword string) bool {
	return strings.Contains(f[0], keyword) || strings.Contains(f[1], keyword)
}

func (f folded) containsAny(keywords []string) bool {
	for _, k := range keywords {
		if f.contains(k) {
			return true
		}
	}
	return false
}
