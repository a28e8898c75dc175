package extraction

// Severity of a warning. It only affects the scoring penalty.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// WarningCode is a stable machine-readable warning identifier.
type WarningCode string

const (
	WarnDocTypeUnknown       WarningCode = "doc_type_unknown"
	WarnTCKNSuspect          WarningCode = "tckn_suspect"
	WarnDateNotFound         WarningCode = "date_not_found"
	WarnTotalNotFound        WarningCode = "total_not_found"
	WarnTotalFallbackMax     WarningCode = "total_fallback_max_amount"
	WarnAmountsInconsistent  WarningCode = "amounts_inconsistent"
	WarnOverallConfidenceLow WarningCode = "overall_confidence_low"
)

// Warning is a non-fatal diagnostic raised during extraction.
type Warning struct {
	Code     WarningCode    `json:"code"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// warnings accumulates diagnostics for a single extraction call. Append only.
type warnings struct {
	items []Warning
}

func (w *warnings) add(code WarningCode, severity Severity, message string, meta map[string]any) {
	if message == "" {
		message = string(code)
	}
	if len(meta) == 0 {
		meta = nil
	}
	w.items = append(w.items, Warning{Code: code, Severity: severity, Message: message, Meta: meta})
}

func (w *warnings) list() []Warning {
	if w.items == nil {
		return []Warning{}
	}
	return w.items
}
