package extraction

import (
	"regexp"
	"strings"
)

// strategy is one entry of an ordered extraction chain.
type strategy struct {
	source     string
	confidence float64
	match      func(text string) (any, bool)
}

// firstMatch runs the chain in order and returns the field built by the first
// strategy that succeeds, or nil.
func firstMatch(text string, chain []strategy) *Field {
	for _, s := range chain {
		if v, ok := s.match(text); ok {
			return newField(v, s.confidence, s.source)
		}
	}
	return nil
}

// findFirst returns the trimmed first capture group of the first match of re.
func findFirst(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

func captureText(re *regexp.Regexp) func(string) (any, bool) {
	return func(text string) (any, bool) {
		return findFirst(re, text)
	}
}

func captureAmount(re *regexp.Regexp) func(string) (any, bool) {
	return func(text string) (any, bool) {
		s, ok := findFirst(re, text)
		if !ok {
			return nil, false
		}
		return ParseAmount(s)
	}
}
