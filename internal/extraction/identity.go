package extraction

import (
	"regexp"
	"strings"
)

var (
	reVKN           = regexp.MustCompile(`(?i)\bVKN[: ]*\s*(\d{10,11})\b`)
	reVergiKimlikNo = regexp.MustCompile(`(?i)\bVergi\s*Kiml[iİı]k\s*No\.?[: ]*\s*(\d{10,11})\b`)
	reTCKN          = regexp.MustCompile(`(?i)\bTCKN[: ]*\s*(\d{11})\b`)
	reInvoiceNo     = regexp.MustCompile(`(?i)\bFatura No[: ]*\s*([A-Z]{2,}[\w\-/]{4,})\b`)
	reGIBInvoiceNo  = regexp.MustCompile(`(?i)\b(GIB[\w\-/]{6,})\b`)
	reETTN          = regexp.MustCompile(`(?i)\bETT?N[: ]*\s*([0-9a-f\-]{20,})\b`)
)

var vknChain = []strategy{
	{source: "keyword_vkn", confidence: 0.95, match: captureText(reVKN)},
	{source: "keyword_vergi_kimlik_no", confidence: 0.90, match: captureText(reVergiKimlikNo)},
}

var invoiceNoChain = []strategy{
	{source: "keyword_invoice_no", confidence: 0.95, match: captureText(reInvoiceNo)},
	{source: "fallback_gib", confidence: 0.85, match: captureText(reGIBInvoiceNo)},
}

var ettnChain = []strategy{
	{source: "keyword_ettn", confidence: 0.95, match: captureText(reETTN)},
}

// extractIdentity fills vkn and tckn. A TCKN starting with zero is invalid
// and only raises tckn_suspect.
func extractIdentity(text string, fields map[string]*Field, w *warnings) {
	if f := firstMatch(text, vknChain); f != nil {
		fields[FieldVKN] = f
	}

	tckn, ok := findFirst(reTCKN, text)
	switch {
	case !ok:
	case strings.HasPrefix(tckn, "0"):
		w.add(WarnTCKNSuspect, SeverityMedium, "TCKN şüpheli görünüyor", map[string]any{"tckn": tckn})
	default:
		fields[FieldTCKN] = newField(tckn, 0.70, "keyword_tckn")
	}
}

// extractDocumentRefs fills invoice_no and ettn. Both are optional and their
// absence is silent.
func extractDocumentRefs(text string, fields map[string]*Field) {
	if f := firstMatch(text, invoiceNoChain); f != nil {
		fields[FieldInvoiceNo] = f
	}
	if f := firstMatch(text, ettnChain); f != nil {
		fields[FieldETTN] = f
	}
}
