package extraction

import "math"

const (
	totalBoost    = 0.15
	subtotalBoost = 0.10
	vatBoost      = 0.10
)

// checkConsistency cross-validates subtotal + VAT against the total when all
// three are present. Passing boosts the three confidences; failing raises
// amounts_inconsistent and leaves them untouched.
func checkConsistency(fields map[string]*Field, w *warnings) {
	total, okTotal := amountOf(fields, FieldTotalIncludingVAT)
	subtotal, okSub := amountOf(fields, FieldTotalExcludingVAT)
	vat, okVAT := amountOf(fields, FieldVATAmount)
	if !okTotal || !okSub || !okVAT {
		return
	}

	tolerance := math.Max(1.0, total*0.01)
	if math.Abs(subtotal+vat-total) <= tolerance {
		boost(fields[FieldTotalIncludingVAT], totalBoost)
		boost(fields[FieldTotalExcludingVAT], subtotalBoost)
		boost(fields[FieldVATAmount], vatBoost)
		return
	}

	w.add(WarnAmountsInconsistent, SeverityHigh, "Ara toplam + KDV toplamı genel toplam ile uyuşmuyor", map[string]any{
		"subtotal": subtotal,
		"vat":      vat,
		"total":    total,
	})
}

func amountOf(fields map[string]*Field, name string) (float64, bool) {
	f, ok := fields[name]
	if !ok {
		return 0, false
	}
	v, ok := f.Value.(float64)
	return v, ok
}

func boost(f *Field, delta float64) {
	f.Confidence = round2(math.Min(1.0, f.Confidence+delta))
}
