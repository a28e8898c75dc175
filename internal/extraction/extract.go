package extraction

// Extractor turns OCR text into a Result. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	scoring Scoring
}

// NewExtractor creates an Extractor with DefaultScoring.
func NewExtractor() *Extractor {
	return NewExtractorWithScoring(DefaultScoring())
}

// NewExtractorWithScoring creates an Extractor with custom weights.
func NewExtractorWithScoring(s Scoring) *Extractor {
	return &Extractor{scoring: s}
}

var defaultExtractor = NewExtractor()

// Extract runs the default Extractor.
func Extract(rawText, filename string) *Result {
	return defaultExtractor.Extract(rawText, filename)
}

// Extract builds a fresh Result for one document. filename is reserved for
// signature rules and does not influence fields yet. Extract never fails:
// missing or doubtful values show up as absent fields and warnings.
func (e *Extractor) Extract(rawText, filename string) *Result {
	text := Normalize(rawText)
	fields := make(map[string]*Field)
	w := &warnings{}

	dt := DetectDocType(text)
	fields[FieldDocType] = &Field{
		Value:             dt.Type,
		Confidence:        dt.Confidence,
		Source:            "signature_keywords",
		MatchedSignatures: dt.Matched,
	}
	if dt.Type == DocTypeUnknown {
		w.add(WarnDocTypeUnknown, SeverityMedium, "Belge tipi tespit edilemedi (unknown)", map[string]any{
			"matched_signatures": dt.Matched,
		})
	}

	candidates := AmountCandidates(text)

	extractIdentity(text, fields, w)
	extractDocumentRefs(text, fields)
	extractDate(text, fields, w)
	extractTotal(text, candidates, fields, w)
	extractSubtotal(text, fields)
	extractVAT(text, fields)
	checkConsistency(fields, w)

	fields[FieldCurrency] = newField("TRY", 1.00, "constant")

	overall := e.scoring.score(fields, w.items)
	if overall < e.scoring.LowThreshold {
		w.add(WarnOverallConfidenceLow, SeverityMedium, "Genel güven skoru düşük", map[string]any{
			"overall_confidence": overall,
		})
	}

	return &Result{
		SchemaVersion:     SchemaVersion,
		Fields:            fields,
		Warnings:          w.list(),
		AmountCandidates:  candidates,
		OverallConfidence: overall,
	}
}
