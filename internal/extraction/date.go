package extraction

import "regexp"

// datePattern is one positional date shape. bounded requires word boundaries
// and is used on the whole text; loose is used on labeled lines, where OCR
// often glues the date to neighbouring characters.
type datePattern struct {
	label   string
	bounded *regexp.Regexp
	loose   *regexp.Regexp
}

// datePatterns are tried in this order.
var datePatterns = []datePattern{
	{
		label:   "dd.mm.yyyy",
		bounded: regexp.MustCompile(`\b(\d{2}[./-]\d{2}[./-]\d{4})\b`),
		loose:   regexp.MustCompile(`(\d{2}[./-]\d{2}[./-]\d{4})`),
	},
	{
		label:   "yyyy-mm-dd",
		bounded: regexp.MustCompile(`\b(\d{4}[./-]\d{2}[./-]\d{2})\b`),
		loose:   regexp.MustCompile(`(\d{4}[./-]\d{2}[./-]\d{2})`),
	},
	{
		label:   "dd.mm.yy",
		bounded: regexp.MustCompile(`\b(\d{2}[./-]\d{2}[./-]\d{2})\b`),
		loose:   regexp.MustCompile(`(\d{2}[./-]\d{2}[./-]\d{2})`),
	},
}

var (
	dateLabels = []string{
		"tarih", "düzenleme tarihi", "duzenleme tarihi", "belge tarihi",
		"düzenlenme tarihi", "duzenlenme tarihi", "date",
	}
	dateHintKeywords = []string{"tarih", "düzenleme", "duzenleme", "düzenlenme", "duzenlenme", "belge", "date"}
)

const (
	dateConfidence   = 0.75
	maxDateHintLines = 5
)

func extractDate(text string, fields map[string]*Field, w *warnings) {
	for _, p := range datePatterns {
		if v, ok := findFirst(p.bounded, text); ok {
			fields[FieldDate] = newField(v, dateConfidence, "pattern_date_"+p.label)
			return
		}
	}

	if v, ok := dateByLabel(text); ok {
		fields[FieldDate] = newField(v, dateConfidence, "label_based_date")
		return
	}

	tried := make([]string, 0, len(datePatterns))
	for _, p := range datePatterns {
		tried = append(tried, p.label)
	}
	w.add(WarnDateNotFound, SeverityHigh, "Belge tarihi bulunamadı", map[string]any{
		"tried_patterns": tried,
		"hint_lines":     linesContaining(text, dateHintKeywords, maxDateHintLines),
	})
}

// dateByLabel looks for a date on every line carrying a date label and on the
// line right after it.
func dateByLabel(text string) (string, bool) {
	lns := lines(text)
	for i, ln := range lns {
		if !fold(ln).containsAny(dateLabels) {
			continue
		}
		if v, ok := looseDate(ln); ok {
			return v, true
		}
		if i+1 < len(lns) {
			if v, ok := looseDate(lns[i+1]); ok {
				return v, true
			}
		}
	}
	return "", false
}

func looseDate(line string) (string, bool) {
	for _, p := range datePatterns {
		if v, ok := findFirst(p.loose, line); ok {
			return v, true
		}
	}
	return "", false
}

// linesContaining returns up to limit lines containing any of keywords.
func linesContaining(text string, keywords []string, limit int) []string {
	hits := []string{}
	for _, ln := range lines(text) {
		if fold(ln).containsAny(keywords) {
			hits = append(hits, ln)
			if len(hits) >= limit {
				break
			}
		}
	}
	return hits
}
