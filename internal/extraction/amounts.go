package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reTotalInclVAT = regexp.MustCompile(
		`(?i)(?:Vergiler|KDV)\W*Dah[iİı]l\W*Toplam\W*Tutar.{0,80}?([>\-]*\s*[\d.,]+)\s*TL?`)
	reGrandTotal = regexp.MustCompile(
		`(?i)(?:Genel\W*Toplam|[ÖO]denecek\W*Tutar|TOPLAM).{0,80}?([>\-]*\s*[\d.,]+)\s*TL?`)
	// reSubtotalLabelTail marks a bare TOPLAM that belongs to a subtotal or tax label.
	reSubtotalLabelTail = regexp.MustCompile(`(?i)(?:ara|h[iİı]zmet|kdv)\s*$`)

	reSubtotal = regexp.MustCompile(
		`(?i)(?:Mal\s*H[iİı]zmet\s*Toplam\s*Tutar\pL*|Ara\s*Toplam)\W*[: ]*\W*([>\-]*\s*[\d.,]+)\s*TL`)

	reVAT         = regexp.MustCompile(`(?i)(?:Hesaplanan\s*KDV|KDV)\w*\W*[: ]*\W*([>\-]*\s*[\d.,]+)\s*TL?`)
	reVATWithRate = regexp.MustCompile(`(?i)KDV\W*%?\s*\d{1,2}\W*(\d[\d.]*,\d{2})`)
	reVATDigits   = regexp.MustCompile(`(?i)Hesaplanan.{0,20}?KDV.{0,20}?([0-9]{5,12})`)
)

const maxEvidenceLines = 3

var totalChain = []strategy{
	{source: "keyword_total", confidence: 0.90, match: captureAmount(reTotalInclVAT)},
	{source: "keyword_grand_total", confidence: 0.90, match: grandTotal},
}

var subtotalChain = []strategy{
	{source: "keyword_subtotal", confidence: 0.85, match: captureAmount(reSubtotal)},
}

var vatChain = []strategy{
	{source: "keyword_vat", confidence: 0.80, match: captureAmount(reVAT)},
	{source: "keyword_vat_rate", confidence: 0.80, match: captureAmount(reVATWithRate)},
	{source: "keyword_vat_recovered", confidence: 0.80, match: recoveredVAT},
}

// grandTotal skips TOPLAM labels that belong to a subtotal or tax line. The
// search resumes right after a skipped label since its match may cover the
// next one.
func grandTotal(text string) (any, bool) {
	for off := 0; off < len(text); {
		m := reGrandTotal.FindStringSubmatchIndex(text[off:])
		if m == nil {
			break
		}
		start := off + m[0]
		if !reSubtotalLabelTail.MatchString(text[:start]) {
			return ParseAmount(text[off+m[2] : off+m[3]])
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		off = start + size
	}
	return nil, false
}

// recoveredVAT reads a separator-less digit run near the VAT label, the way
// thermal receipts often come out of OCR.
func recoveredVAT(text string) (any, bool) {
	digits, ok := findFirst(reVATDigits, text)
	if !ok {
		return nil, false
	}
	digits = NormalizeOCRDigits(digits)
	if digits == "" {
		return nil, false
	}
	return ParseAmount(digits)
}

// extractTotal falls back to the largest candidate when no total label is
// found.
func extractTotal(text string, candidates []float64, fields map[string]*Field, w *warnings) {
	if f := firstMatch(text, totalChain); f != nil {
		fields[FieldTotalIncludingVAT] = f
		return
	}

	if len(candidates) == 0 {
		w.add(WarnTotalNotFound, SeverityHigh, "Toplam tutar bulunamadı", nil)
		return
	}

	selected := candidates[len(candidates)-1]
	fields[FieldTotalIncludingVAT] = newField(selected, 0.55, "heuristic_max_amount")
	w.add(WarnTotalFallbackMax, SeverityMedium, "Toplam tutar max(amounts) ile seçildi", map[string]any{
		"amount_candidates": candidates,
		"selected_total":    selected,
		"evidence_lines":    linesContainingAmount(text, selected, maxEvidenceLines),
	})
}

func extractSubtotal(text string, fields map[string]*Field) {
	if f := firstMatch(text, subtotalChain); f != nil {
		fields[FieldTotalExcludingVAT] = f
	}
}

func extractVAT(text string, fields map[string]*Field) {
	if f := firstMatch(text, vatChain); f != nil {
		fields[FieldVATAmount] = f
	}
}

// linesContainingAmount returns up to limit lines that show the integer part
// of amount as "1180", "1.180", "1.180,00" or "1180,00".
func linesContainingAmount(text string, amount float64, limit int) []string {
	n := int64(math.Round(amount))
	plain := strconv.FormatInt(n, 10)
	grouped := groupThousands(n)
	variants := []string{plain, grouped, grouped + ",00", plain + ",00"}

	hits := []string{}
	for _, ln := range lines(text) {
		for _, v := range variants {
			if strings.Contains(ln, v) {
				hits = append(hits, ln)
				break
			}
		}
		if len(hits) >= limit {
			break
		}
	}
	return hits
}

// groupThousands formats n with "." as thousands separator.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
