package extraction

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	reBareDigits  = regexp.MustCompile(`^\d{5,9}$`)
	reAmountNoise = regexp.MustCompile(`[^\d.,]`)
	reNonDigit    = regexp.MustCompile(`\D`)
)

// noiseSuffixes are trailing digit pairs OCR appends to 8 digit VAT amounts
// (e.g. "11500071" read for "115000").
var noiseSuffixes = []string{"71", "11", "01", "91"}

// ParseAmount parses a Turkish formatted amount ("6.900,00", "1150,5").
// A bare run of 5-9 digits is read as having lost its separator, so "115000"
// is 1150.00. It reports false when nothing parseable is left.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if reBareDigits.MatchString(s) {
		if v, err := strconv.ParseFloat(s[:len(s)-2]+"."+s[len(s)-2:], 64); err == nil {
			return v, true
		}
	}

	s = reAmountNoise.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeOCRDigits strips everything but digits, keeps at most 9 of them
// and drops a known noise suffix from 8 digit runs. The result is meant to be
// handed to ParseAmount; an empty string means nothing usable was found.
func NormalizeOCRDigits(s string) string {
	s = reNonDigit.ReplaceAllString(s, "")
	if len(s) > 9 {
		s = s[:9]
	}
	if len(s) == 8 && slices.ContainsFunc(noiseSuffixes, func(suf string) bool {
		return strings.HasSuffix(s, suf)
	}) {
		s = s[:len(s)-2]
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
