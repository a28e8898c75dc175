package extraction

import (
	"regexp"
	"slices"
)

var (
	reCurrencyAmount = regexp.MustCompile(`(?i)([\d.,]{2,})\s*TL`)
	reGroupedAmount  = regexp.MustCompile(`\b(\d{1,3}(?:\.\d{3})*(?:,\d{2})|\d{1,6},\d{2})\b`)
)

// AmountCandidates returns every parseable monetary value in text, sorted
// ascending without duplicates. It never returns nil.
func AmountCandidates(text string) []float64 {
	out := []float64{}
	for _, re := range []*regexp.Regexp{reCurrencyAmount, reGroupedAmount} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v, ok := ParseAmount(m[1]); ok {
				out = append(out, v)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
