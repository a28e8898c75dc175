package extraction

import (
	"regexp"
	"strings"
)

var (
	reLineEnding = regexp.MustCompile(`\r\n?`)
	reHorizSpace = regexp.MustCompile(`[ \t\f\v]+`)
	reEdgeSpace  = regexp.MustCompile(` ?\n ?`)
	reBlankLines = regexp.MustCompile(`\n{2,}`)
)

// Normalize collapses OCR whitespace noise. Line endings become \n, horizontal
// whitespace runs become one space, blank lines are dropped and the result is
// trimmed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reLineEnding.ReplaceAllString(s, "\n")
	s = reHorizSpace.ReplaceAllString(s, " ")
	s = reEdgeSpace.ReplaceAllString(s, "\n")
	s = reBlankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// lines returns the trimmed, non-empty lines of s.
func lines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
