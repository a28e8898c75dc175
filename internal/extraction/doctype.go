package extraction

// Document types recognised by DetectDocType.
const (
	DocTypeUnknown     = "unknown"
	DocTypeEInvoice    = "e_fatura"
	DocTypePOSSlip     = "pos_slip"
	DocTypeMarket      = "market_fis"
	DocTypeRestaurant  = "restaurant_fis"
	DocTypeFuelStation = "akaryakit_fis"
)

const maxMatchedSignatures = 5

// signature is a document type and its diagnostic keywords. A keyword is a
// set of spelling variants that count as a single hit.
type signature struct {
	docType  string
	keywords [][]string
}

// signatures is read-only. Order matters: on equal hit counts the earlier
// type wins.
var signatures = []signature{
	{DocTypeEInvoice, [][]string{
		{"gib"}, {"etn"}, {"vergiler dahil toplam tutar"}, {"senaryo"}, {"fatura no"}, {"vkn"},
		{"mal hizmet toplam tutar"},
	}},
	{DocTypePOSSlip, [][]string{
		{"pos"}, {"slip"}, {"onay kodu"}, {"provizyon"}, {"terminal"}, {"kart no"}, {"işlem no", "islem no"},
	}},
	{DocTypeMarket, [][]string{
		{"fiş", "fis"}, {"kasa"}, {"kasiyer"}, {"toplam"}, {"kdv"}, {"para üstü", "para ustu"}, {"indirim"},
	}},
	{DocTypeRestaurant, [][]string{
		{"masa"}, {"adisyon"}, {"servis"}, {"garson"}, {"kuver"},
	}},
	{DocTypeFuelStation, [][]string{
		{"litre"}, {"pompa"}, {"akaryakıt", "akaryakit"}, {"istasyon"}, {"nozzle"},
	}},
}

// DocTypeMatch is the outcome of DetectDocType.
type DocTypeMatch struct {
	Type       string
	Confidence float64
	Matched    []string
}

// DetectDocType scores text against the keyword signatures and picks the type
// with the most hits.
func DetectDocType(text string) DocTypeMatch {
	f := fold(text)

	best := DocTypeMatch{Type: DocTypeUnknown, Matched: []string{}}
	bestHits := 0
	for _, sig := range signatures {
		var hits []string
		for _, variants := range sig.keywords {
			for _, v := range variants {
				if f.contains(v) {
					hits = append(hits, v)
					break
				}
			}
		}
		if len(hits) > bestHits {
			bestHits = len(hits)
			best.Type = sig.docType
			best.Matched = hits
		}
	}

	best.Confidence = docTypeConfidence(bestHits)
	if len(best.Matched) > maxMatchedSignatures {
		best.Matched = best.Matched[:maxMatchedSignatures]
	}
	return best
}

func docTypeConfidence(hits int) float64 {
	switch {
	case hits <= 0:
		return 0.30
	case hits == 1:
		return 0.55
	case hits == 2:
		return 0.70
	default:
		return 0.90
	}
}
