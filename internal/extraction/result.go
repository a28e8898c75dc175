package extraction

// SchemaVersion identifies the shape of Result. Bump it on breaking changes.
const SchemaVersion = "2.0"

// Field names used as keys of Result.Fields.
const (
	FieldDocType           = "doc_type"
	FieldVKN               = "vkn"
	FieldTCKN              = "tckn"
	FieldInvoiceNo         = "invoice_no"
	FieldETTN              = "ettn"
	FieldDate              = "date"
	FieldTotalIncludingVAT = "total_including_vat"
	FieldTotalExcludingVAT = "total_excluding_vat"
	FieldVATAmount         = "vat_amount"
	FieldCurrency          = "currency"
)

// Field is a single extracted value with its confidence and the strategy that produced it.
type Field struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`

	// MatchedSignatures is only set on the doc_type field.
	MatchedSignatures []string `json:"matched_signatures,omitempty"`
}

// Result is the output of one extraction call.
type Result struct {
	SchemaVersion     string            `json:"schema_version"`
	Fields            map[string]*Field `json:"fields"`
	Warnings          []Warning         `json:"warnings"`
	AmountCandidates  []float64         `json:"amount_candidates"`
	OverallConfidence float64           `json:"overall_confidence"`
}

func newField(value any, confidence float64, source string) *Field {
	return &Field{Value: value, Confidence: round2(confidence), Source: source}
}

// Amount returns the numeric value of a monetary field.
func (r *Result) Amount(name string) (float64, bool) {
	return amountOf(r.Fields, name)
}

// Text returns the string value of a field.
func (r *Result) Text(name string) (string, bool) {
	f, ok := r.Fields[name]
	if !ok {
		return "", false
	}
	v, ok := f.Value.(string)
	return v, ok
}

// HasWarning reports whether a warning with the given code was raised.
func (r *Result) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
